package strava

// ══════════════════════════════════════════════════════════════════════════════
// DATA TRANSFER OBJECTS - raw Strava API payloads
// ══════════════════════════════════════════════════════════════════════════════

// AthleteDTO is the athlete summary embedded in token responses.
type AthleteDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// TokenDTO is the OAuth token payload returned by the Strava token endpoint
// for both the authorization_code and refresh_token grants.
type TokenDTO struct {
	TokenType    string     `json:"token_type"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	Athlete      AthleteDTO `json:"athlete"`
}

// ActivityDTO is one raw athlete activity as Strava reports it:
// distance in meters, moving time in seconds, elevation gain in meters,
// average speed in meters per second.
type ActivityDTO struct {
	ID                 int64   `json:"id"`
	Type               string  `json:"type"`
	Distance           float64 `json:"distance"`
	MovingTime         int64   `json:"moving_time"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
	AverageSpeed       float64 `json:"average_speed"`
	StartDate          string  `json:"start_date"`
	Map                MapDTO  `json:"map"`
}

// MapDTO carries the encoded route polyline.
type MapDTO struct {
	SummaryPolyline string `json:"summary_polyline"`
}
