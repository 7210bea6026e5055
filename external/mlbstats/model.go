package mlbstats

type scheduleEnvelope struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Date  string `json:"date"`
	Games []game `json:"games"`
}

type game struct {
	GamePk       int64      `json:"gamePk"`
	GameDate     string     `json:"gameDate"`
	OfficialDate string     `json:"officialDate"`
	Status       gameStatus `json:"status"`
	Teams        gameTeams  `json:"teams"`
	Venue        namedRef   `json:"venue"`
}

type gameStatus struct {
	DetailedState string `json:"detailedState"`
}

type gameTeams struct {
	Home teamSide `json:"home"`
	Away teamSide `json:"away"`
}

type teamSide struct {
	Team namedRef `json:"team"`
}

type namedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
