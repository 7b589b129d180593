package pubsub

import (
	"encoding/json"
	"strconv"

	"letsshare/internal/domain/service"
	"letsshare/internal/errors"
)

// encodeEvent returns the JSON body and the routing attributes shared by all publishers.
func encodeEvent(event *service.Event) ([]byte, map[string]string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	attributes := map[string]string{
		"event_id":   event.ID,
		"event_type": event.Type,
		"user_id":    strconv.FormatInt(event.UserID, 10),
	}
	if event.PostID != 0 {
		attributes["post_id"] = strconv.FormatInt(event.PostID, 10)
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return data, attributes, nil
}
