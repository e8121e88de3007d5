package roommate

import (
	"google.golang.org/grpc"

	"github.com/oggyb/roommate-match/internal/app"
	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
)

// Registrar ties the Roommate service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Roommate service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Roommate service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	service := NewRoommateService(r.appCtx)
	pb.RegisterRoommateServiceServer(s, service)
}
