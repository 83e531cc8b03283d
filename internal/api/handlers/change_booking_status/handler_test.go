package change_booking_status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_booking_status"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const bookingID = "0b7e9a52-1c3d-4f6e-9a8b-7c6d5e4f3a2b"

type fakeUseCase struct {
	got  *changeStatus.Request
	resp *changeStatus.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *changeStatus.Request) (*changeStatus.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRequest(id, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/status", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": id})
	return r.WithContext(middleware.WithUserID(r.Context(), "pro-uid"))
}

func TestHandle_Reject(t *testing.T) {
	uc := &fakeUseCase{resp: &changeStatus.Response{
		Booking:      &domain.Booking{ID: bookingID, Status: domain.StatusRejected},
		Actor:        domain.ActorProfessional,
		ReleasedSlot: &domain.AvailabilitySlot{ID: "slot-1"},
	}}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(bookingID, `{"action":"reject","reason":"занят"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, changeStatus.ActionReject, uc.got.Action)
	assert.Equal(t, "pro-uid", uc.got.ActorID)
	assert.Equal(t, bookingID, uc.got.BookingID)

	var resp ChangeStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "professional", resp.Actor)
	assert.True(t, resp.SlotReleased)
	assert.Equal(t, "rejected", resp.Booking.Status)
}

func TestHandle_InvalidBookingID(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("42", `{"action":"accept"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{changeStatus.ErrInvalidInput, http.StatusBadRequest},
		{changeStatus.ErrBookingNotFound, http.StatusNotFound},
		{changeStatus.ErrForbidden, http.StatusForbidden},
		{changeStatus.ErrInvalidTransition, http.StatusConflict},
		{changeStatus.ErrStatusConflict, http.StatusConflict},
		{changeStatus.ErrCancellationTooLate, http.StatusBadRequest},
		{changeStatus.ErrTooEarlyToComplete, http.StatusBadRequest},
		{changeStatus.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(bookingID, `{"action":"cancel"}`))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
