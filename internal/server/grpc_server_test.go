package server_test

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/oggyb/roommate-match/internal/app"
	"github.com/oggyb/roommate-match/internal/matching"
	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
	"github.com/oggyb/roommate-match/internal/server"
	"github.com/oggyb/roommate-match/internal/service/roommate"
)

// startServer serves an engine-only RoommateService over bufconn and
// returns a connected client.
func startServer(t *testing.T, logs *bytes.Buffer) (*server.GRPCServer, *grpc.ClientConn) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	appCtx := app.New(nil, nil, log, matching.New())
	srv := server.NewGRPCServer(log, roommate.NewRegistrar(appCtx))

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return srv, conn
}

func TestRoommateServiceOverGRPC(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var logs bytes.Buffer
	_, conn := startServer(t, &logs)
	client := pb.NewRoommateServiceClient(conn)

	profile := func(id string) *pb.Profile {
		return &pb.Profile{
			UserId:    id,
			ListingId: "apt-7",
			Lifestyle: &pb.Lifestyle{Cleanliness: "clean", SocialLevel: "quiet"},
			Budget:    &pb.Budget{MaxRent: 1200},
			Location:  &pb.Location{City: "NYC", Neighborhoods: []string{"Astoria"}},
		}
	}

	_, err := client.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: profile("1")})
	require.NoError(t, err)
	resp, err := client.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: profile("2")})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "quiet", resp.Matches[0].B.Lifestyle.SocialLevel)
	// unset levels come back normalized
	assert.Equal(t, "flexible", resp.Matches[0].B.Lifestyle.WorkSchedule)

	count, err := client.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count.Count)

	feed, err := client.GetFeed(ctx, &pb.GetFeedRequest{ExcludingUserId: "1"})
	require.NoError(t, err)
	require.Len(t, feed.Profiles, 1)
	assert.Equal(t, "2", feed.Profiles[0].UserId)

	_, err = client.GetMatches(ctx, &pb.GetMatchesRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	withdrawn, err := client.WithdrawSearch(ctx, &pb.WithdrawSearchRequest{UserId: "2"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), withdrawn.Removed)

	assert.Contains(t, logs.String(), "method=/roommate.v1.RoommateService/SubmitSearch")
	assert.Contains(t, logs.String(), "code=InvalidArgument")
}

func TestHealthService(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var logs bytes.Buffer
	srv, conn := startServer(t, &logs)
	health := healthpb.NewHealthClient(conn)

	resp, err := health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	shutdownCtx, stop := context.WithTimeout(ctx, time.Second)
	defer stop()
	srv.Health.Shutdown()
	resp, err = health.Check(shutdownCtx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}
