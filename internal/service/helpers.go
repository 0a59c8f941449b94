package service

import (
	"strconv"

	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

func parseTicketID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInput("invalid ticket id", map[string]any{"value": value})
	}
	return id, nil
}
