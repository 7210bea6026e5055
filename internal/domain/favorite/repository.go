package favorite

import (
	"context"
	"errors"
	"fmt"

	sonic "github.com/bytedance/sonic"
)

var ErrMalformedState = errors.New("malformed favorites state")

// Repository persists the whole followed-sports list as one document.
type Repository interface {
	LoadFavorites(ctx context.Context) ([]FollowedSport, error)
	SaveFavorites(ctx context.Context, sports []FollowedSport) error
}

type sportDocument struct {
	Name  string         `json:"name"`
	Teams []teamDocument `json:"teams"`
}

type teamDocument struct {
	Name string `json:"name"`
}

// EncodeDocument renders sports as [{name, teams:[{name}]}].
func EncodeDocument(sports []FollowedSport) ([]byte, error) {
	docs := make([]sportDocument, 0, len(sports))
	for _, sport := range sports {
		teams := make([]teamDocument, 0, len(sport.Teams))
		for _, team := range sport.Teams {
			teams = append(teams, teamDocument{Name: team.Name})
		}
		docs = append(docs, sportDocument{Name: sport.Name, Teams: teams})
	}

	raw, err := sonic.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode favorites document: %w", err)
	}
	return raw, nil
}

// DecodeDocument parses a stored document. Empty input is an empty list.
func DecodeDocument(raw []byte) ([]FollowedSport, error) {
	if len(raw) == 0 {
		return []FollowedSport{}, nil
	}

	var docs []sportDocument
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	out := make([]FollowedSport, 0, len(docs))
	for _, doc := range docs {
		teams := make([]FollowedTeam, 0, len(doc.Teams))
		for _, team := range doc.Teams {
			teams = append(teams, FollowedTeam{Name: team.Name})
		}
		out = append(out, FollowedSport{Name: doc.Name, Teams: teams})
	}
	return Prune(out), nil
}
