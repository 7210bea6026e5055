package thesportsdb

type eventsEnvelope struct {
	Events []event `json:"events"`
}

type event struct {
	ID        string `json:"idEvent"`
	Event     string `json:"strEvent"`
	HomeTeam  string `json:"strHomeTeam"`
	AwayTeam  string `json:"strAwayTeam"`
	League    string `json:"strLeague"`
	DateEvent string `json:"dateEvent"`
	Time      string `json:"strTime"`
	Timestamp string `json:"strTimestamp"`
	Venue     string `json:"strVenue"`
	Status    string `json:"strStatus"`
}
