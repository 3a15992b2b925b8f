package v1

import (
	"context"
	"fmt"
	"strconv"

	"sitelink.com/sitelink/model"
)

type AttendanceEndpoint struct {
	*Resource[model.AttendanceRecord]
}

func (ep *AttendanceEndpoint) GetByUser(ctx context.Context, userID int) ([]model.AttendanceRecord, error) {
	return ep.List(ctx, map[string]string{"user": strconv.Itoa(userID)})
}

// CheckIn creates the day's record. A second check-in for the same user and
// day fails with an *APIError whose IsDuplicateCheckIn is true.
func (ep *AttendanceEndpoint) CheckIn(ctx context.Context, payload model.CheckInRequest) (*model.AttendanceRecord, error) {
	resp, err := ep.transport.Post(ctx, ep.path+"check_in/", payload)
	if err != nil {
		return nil, err
	}
	return decode[*model.AttendanceRecord](resp)
}

func (ep *AttendanceEndpoint) CheckOut(ctx context.Context, id int, payload model.CheckOutRequest) (*model.AttendanceRecord, error) {
	resp, err := ep.transport.Patch(ctx, fmt.Sprintf("%s%d/check_out/", ep.path, id), payload, nil)
	if err != nil {
		return nil, err
	}
	return decode[*model.AttendanceRecord](resp)
}
