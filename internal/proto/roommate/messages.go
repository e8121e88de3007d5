package roommate

// Wire messages of roommate.v1.RoommateService. They travel through the
// "json" codec, so field names follow the lowerCamelCase of protojson.

type Lifestyle struct {
	Cleanliness  string `json:"cleanliness,omitempty"`
	SocialLevel  string `json:"socialLevel,omitempty"`
	WorkSchedule string `json:"workSchedule,omitempty"`
	GuestPolicy  string `json:"guestPolicy,omitempty"`
}

type Preferences struct {
	PetFriendly    bool `json:"petFriendly,omitempty"`
	SmokingAllowed bool `json:"smokingAllowed,omitempty"`
	DrinkingOk     bool `json:"drinkingOk,omitempty"`
	LgbtqFriendly  bool `json:"lgbtqFriendly,omitempty"`
}

type Budget struct {
	MaxRent        float64 `json:"maxRent,omitempty"`
	PreferredSplit float64 `json:"preferredSplit,omitempty"`
}

// MoveIn dates are unix milliseconds; 0 means unset.
type MoveIn struct {
	Earliest uint64 `json:"earliest,omitempty"`
	Latest   uint64 `json:"latest,omitempty"`
	Flexible bool   `json:"flexible,omitempty"`
}

type Location struct {
	City              string   `json:"city,omitempty"`
	Neighborhoods     []string `json:"neighborhoods,omitempty"`
	MaxCommuteMinutes int32    `json:"maxCommuteMinutes,omitempty"`
}

type Profile struct {
	UserId       string       `json:"userId"`
	ListingId    string       `json:"listingId,omitempty"`
	Name         string       `json:"name,omitempty"`
	Age          int32        `json:"age,omitempty"`
	Avatar       string       `json:"avatar,omitempty"`
	Verified     bool         `json:"verified,omitempty"`
	TrustScore   float64      `json:"trustScore,omitempty"`
	Lifestyle    *Lifestyle   `json:"lifestyle,omitempty"`
	Preferences  *Preferences `json:"preferences,omitempty"`
	Budget       *Budget      `json:"budget,omitempty"`
	MoveIn       *MoveIn      `json:"moveIn,omitempty"`
	Location     *Location    `json:"location,omitempty"`
	Interests    []string     `json:"interests,omitempty"`
	DealBreakers []string     `json:"dealBreakers,omitempty"`
	// CreatedAt and LastActive are unix milliseconds, set by the server.
	CreatedAt  uint64 `json:"createdAt,omitempty"`
	LastActive uint64 `json:"lastActive,omitempty"`
}

func (x *Profile) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *Profile) GetListingId() string {
	if x != nil {
		return x.ListingId
	}
	return ""
}

type Gates struct {
	Listing   bool `json:"listing"`
	Budget    bool `json:"budget"`
	Lifestyle bool `json:"lifestyle"`
	Location  bool `json:"location"`
}

type Breakdown struct {
	Lifestyle   float64 `json:"lifestyle"`
	Interests   float64 `json:"interests"`
	Budget      float64 `json:"budget"`
	Preferences float64 `json:"preferences"`
	Location    float64 `json:"location"`
}

type Match struct {
	Id                 string     `json:"id"`
	A                  *Profile   `json:"a"`
	B                  *Profile   `json:"b"`
	CompatibilityScore int32      `json:"compatibilityScore"`
	MatchReasons       []string   `json:"matchReasons,omitempty"`
	Gates              *Gates     `json:"gates,omitempty"`
	Breakdown          *Breakdown `json:"breakdown,omitempty"`
	UnixTimestamp      uint64     `json:"unixTimestamp"`
}

type SubmitSearchRequest struct {
	Profile *Profile `json:"profile"`
}

func (x *SubmitSearchRequest) GetProfile() *Profile {
	if x != nil {
		return x.Profile
	}
	return nil
}

type SubmitSearchResponse struct {
	Matches []*Match `json:"matches"`
}

type WithdrawSearchRequest struct {
	UserId string `json:"userId"`
	// ListingId nil withdraws every search of the user.
	ListingId *string `json:"listingId,omitempty"`
}

func (x *WithdrawSearchRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type WithdrawSearchResponse struct {
	Removed uint64 `json:"removed"`
}

type GetFeedRequest struct {
	ExcludingUserId string  `json:"excludingUserId,omitempty"`
	PageSize        int32   `json:"pageSize,omitempty"`
	PaginationToken *string `json:"paginationToken,omitempty"`
}

func (x *GetFeedRequest) GetExcludingUserId() string {
	if x != nil {
		return x.ExcludingUserId
	}
	return ""
}

func (x *GetFeedRequest) GetPaginationToken() string {
	if x != nil && x.PaginationToken != nil {
		return *x.PaginationToken
	}
	return ""
}

type GetFeedResponse struct {
	Profiles            []*Profile `json:"profiles"`
	NextPaginationToken *string    `json:"nextPaginationToken,omitempty"`
}

func (x *GetFeedResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}

type GetMatchesRequest struct {
	UserId          string  `json:"userId"`
	PageSize        int32   `json:"pageSize,omitempty"`
	PaginationToken *string `json:"paginationToken,omitempty"`
}

func (x *GetMatchesRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *GetMatchesRequest) GetPaginationToken() string {
	if x != nil && x.PaginationToken != nil {
		return *x.PaginationToken
	}
	return ""
}

type GetMatchesResponse struct {
	Matches             []*Match `json:"matches"`
	NextPaginationToken *string  `json:"nextPaginationToken,omitempty"`
}

func (x *GetMatchesResponse) GetNextPaginationToken() string {
	if x != nil && x.NextPaginationToken != nil {
		return *x.NextPaginationToken
	}
	return ""
}

type CountMatchesRequest struct {
	UserId string `json:"userId"`
}

func (x *CountMatchesRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type CountMatchesResponse struct {
	Count uint64 `json:"count"`
}
