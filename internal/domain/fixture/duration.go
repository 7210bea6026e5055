package fixture

import "time"

// Session is a motorsport weekend session.
type Session string

const (
	SessionPractice1        Session = "Practice 1"
	SessionPractice2        Session = "Practice 2"
	SessionPractice3        Session = "Practice 3"
	SessionSprintQualifying Session = "Sprint Qualifying"
	SessionSprint           Session = "Sprint"
	SessionQualifying       Session = "Qualifying"
	SessionRace             Session = "Race"
)

var defaultDurations = map[Provider]time.Duration{
	ProviderGenericLeague: 2 * time.Hour,
	ProviderBaseball:      3 * time.Hour,
	ProviderHockey:        150 * time.Minute,
	ProviderMotorsport:    2 * time.Hour,
}

var sessionDurations = map[Session]time.Duration{
	SessionPractice1:        time.Hour,
	SessionPractice2:        time.Hour,
	SessionPractice3:        time.Hour,
	SessionSprintQualifying: time.Hour,
	SessionSprint:           time.Hour,
	SessionQualifying:       time.Hour,
	SessionRace:             2 * time.Hour,
}

// DefaultDuration is the assumed length of a fixture when the provider
// omits an end time.
func DefaultDuration(p Provider) time.Duration {
	if d, ok := defaultDurations[p]; ok {
		return d
	}
	return 2 * time.Hour
}

func SessionDuration(s Session) time.Duration {
	if d, ok := sessionDurations[s]; ok {
		return d
	}
	return time.Hour
}

// Window returns start and start+d, or nil pointers when start is nil.
func Window(start *time.Time, d time.Duration) (*time.Time, *time.Time) {
	if start == nil {
		return nil, nil
	}
	s := *start
	e := s.Add(d)
	return &s, &e
}
