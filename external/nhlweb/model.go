package nhlweb

type scheduleEnvelope struct {
	GameWeek []gameDay `json:"gameWeek"`
}

type gameDay struct {
	Date  string `json:"date"`
	Games []game `json:"games"`
}

type game struct {
	ID           int64         `json:"id"`
	StartTimeUTC string        `json:"startTimeUTC"`
	GameState    string        `json:"gameState"`
	Venue        localized     `json:"venue"`
	HomeTeam     scheduledTeam `json:"homeTeam"`
	AwayTeam     scheduledTeam `json:"awayTeam"`
}

type scheduledTeam struct {
	Abbrev     string    `json:"abbrev"`
	PlaceName  localized `json:"placeName"`
	CommonName localized `json:"commonName"`
}

// localized is the NHL API's {"default": "..."} string wrapper.
type localized struct {
	Default string `json:"default"`
}

func (t scheduledTeam) fullName() string {
	place := t.PlaceName.Default
	common := t.CommonName.Default
	switch {
	case place == "":
		return common
	case common == "":
		return place
	default:
		return place + " " + common
	}
}
