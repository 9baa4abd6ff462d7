package queries

import (
	"context"

	"sensea-booking/internal/usecase/shared"
)

type SettingsQueries interface {
	All(ctx context.Context) (map[string]string, error)
}

type settingsQueries struct {
	reader shared.SettingsReader
}

func NewSettingsQueries(reader shared.SettingsReader) SettingsQueries {
	return &settingsQueries{reader: reader}
}

func (q *settingsQueries) All(ctx context.Context) (map[string]string, error) {
	return q.reader.All(ctx)
}
