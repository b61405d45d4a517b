package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/habitus/internal/domain"
)

// resolveActivity accepts an ID, an unambiguous ID prefix of at least four
// characters, or a case-insensitive name.
func resolveActivity(ctx context.Context, app *App, input string) (*domain.Activity, error) {
	a, err := app.Activities.Resolve(ctx, input)
	if err == nil {
		return a, nil
	}
	if len(input) < 4 {
		return nil, err
	}

	all, listErr := app.Activities.List(ctx)
	if listErr != nil {
		return nil, err
	}
	var match *domain.Activity
	for _, cand := range all {
		if len(cand.ID) >= len(input) && cand.ID[:len(input)] == input {
			if match != nil {
				return nil, fmt.Errorf("ID prefix %q is ambiguous", input)
			}
			match = cand
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

// activityNames maps IDs to names for display.
func activityNames(ctx context.Context, app *App) map[string]string {
	out := make(map[string]string)
	all, err := app.Activities.List(ctx)
	if err != nil {
		return out
	}
	for _, a := range all {
		out[a.ID] = a.Name
	}
	return out
}
