package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/cache"
	"github.com/vishwaksen/campus-scheduler/internal/dto"
)

func newTestHandler() *ScheduleHandler {
	gin.SetMode(gin.TestMode)
	return NewScheduleHandler(cache.New(nil, 0), nil, nil, Defaults{})
}

func feasibleGenerateRequest() dto.ScheduleGenerateRequest {
	return dto.ScheduleGenerateRequest{
		Semester: 3,
		Branch:   "CSDS",
		Sections: []string{"A"},
		Subjects: []dto.SubjectInput{
			{Code: "CS31", Label: "Data Structures", ShortLabel: "DSA", Type: "theory", HoursPerWeek: 2, Priority: 1},
		},
		Faculty: []dto.FacultyInput{
			{ID: "F1", Label: "Prof A", Subjects: []string{"CS31"}, MaxHoursPerDay: 6, MaxHoursPerWeek: 20},
		},
		Rooms:         []dto.RoomInput{{Number: "501", Type: "classroom"}},
		Days:          []string{"Monday", "Tuesday", "Wednesday"},
		PeriodsPerDay: 9,
		Algorithm:     "greedy",
	}
}

func performGenerate(h *ScheduleHandler, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Generate(c)
	return rec
}

func TestGenerateReturnsProposalForFeasibleRequest(t *testing.T) {
	h := newTestHandler()
	body, err := json.Marshal(feasibleGenerateRequest())
	require.NoError(t, err)

	rec := performGenerate(h, body)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data generateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.ProposalID)
	assert.True(t, envelope.Data.Document.Metadata.IsValid)
}

func TestGenerateRejectsMissingRequiredFields(t *testing.T) {
	h := newTestHandler()
	req := feasibleGenerateRequest()
	req.Sections = nil
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := performGenerate(h, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	h := newTestHandler()

	rec := performGenerate(h, []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReturns404ForUnknownProposal(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedules/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
