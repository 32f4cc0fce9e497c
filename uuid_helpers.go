package userapi

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func parseUserID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryBadInput, "invalid user id").
			WithMetadata(map[string]any{"id": id})
	}
	return uid, nil
}
