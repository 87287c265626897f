package oddsapi

// Response structures matching The Odds API v4 JSON format.
// Odds are requested in decimal format, timestamps in unix seconds.

// Match is one event with every bookmaker's current quotes.
type Match struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime int64       `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker holds a single book's markets for a match.
type Bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate int64    `json:"last_update"`
	Markets    []Market `json:"markets"`
}

// Market is one market (e.g. h2h) with its quoted outcomes.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is a single (name, decimal price) quote.
type Outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type sportResponse struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	HasOutrights bool   `json:"has_outrights"`
}

type errorResponse struct {
	Message string `json:"message"`
}
