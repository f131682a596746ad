package domain

import "context"

// Board is consumed by handlers
type Board interface {
	Column(ctx context.Context, in ColumnInput) (Column, error)
	SetPreference(ctx context.Context, in PreferenceInput) (Preference, error)
	Preference(ctx context.Context, productID, status string) (Preference, error)
}
