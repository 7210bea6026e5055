package jolpica

type seasonEnvelope struct {
	MRData struct {
		RaceTable struct {
			Season string `json:"season"`
			Races  []race `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type race struct {
	Season           string   `json:"season"`
	Round            string   `json:"round"`
	RaceName         string   `json:"raceName"`
	Circuit          circuit  `json:"Circuit"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	FirstPractice    *session `json:"FirstPractice"`
	SecondPractice   *session `json:"SecondPractice"`
	ThirdPractice    *session `json:"ThirdPractice"`
	SprintQualifying *session `json:"SprintQualifying"`
	SprintShootout   *session `json:"SprintShootout"`
	Sprint           *session `json:"Sprint"`
	Qualifying       *session `json:"Qualifying"`
}

type circuit struct {
	CircuitID   string   `json:"circuitId"`
	CircuitName string   `json:"circuitName"`
	Location    location `json:"Location"`
}

type location struct {
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type session struct {
	Date string `json:"date"`
	Time string `json:"time"`
}
