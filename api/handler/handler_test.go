package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/locale"
	"github.com/fastygo/taskboard/usecase/pipeline"
	statisticsUC "github.com/fastygo/taskboard/usecase/statistics"
)

func queryArgs(raw string) *fasthttp.Args {
	var args fasthttp.Args
	args.Parse(raw)
	return &args
}

func TestParseView(t *testing.T) {
	params, err := parseView(queryArgs("status=in-work&deadline=2025-01-31&q=%D0%B0%D0%BD%D0%BD&sort=deadlineDesc&direction=ASC&page=3&page_size=500"), 10)
	require.NoError(t, err)

	assert.Equal(t, pipeline.Params{
		Status:             domain.EffectiveInWork,
		DeadlineOnOrBefore: domain.Date{Year: 2025, Month: time.January, Day: 31},
		Query:              "анн",
		Sort:               pipeline.SortDeadlineDesc,
		Direction:          pipeline.DirectionAsc,
		Page:               3,
		PageSize:           maxPageSize,
	}, params)
}

func TestParseViewDefaults(t *testing.T) {
	params, err := parseView(queryArgs(""), 7)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Params{Page: 1, PageSize: 7}, params)
}

func TestParseViewRejects(t *testing.T) {
	for _, raw := range []string{
		"status=lost",
		"deadline=31.01.2025",
		"page=first",
		"page_size=0",
		"sort=byMood",
		"direction=sideways",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := parseView(queryArgs(raw), 10)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "%v", err)
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrNotPerformer, http.StatusForbidden},
		{domain.ErrEmptyComment, http.StatusBadRequest},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrAlreadyCompleted, http.StatusConflict},
		{errors.New("pg: broken pipe"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := mapError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

type staticStats []domain.UserStatistic

func (s staticStats) ListUserStatistics(context.Context, domain.Date) ([]domain.UserStatistic, error) {
	return s, nil
}

func (s staticStats) GetMyStatistic(_ context.Context, userID string, _ domain.Date) (*domain.MyStatistic, error) {
	for _, row := range s {
		if row.ID == userID {
			return &domain.MyStatistic{Completed: row.Completed, InWork: row.InWork, Failed: row.Failed}, nil
		}
	}
	return &domain.MyStatistic{}, nil
}

func newStatisticsHandler(t *testing.T) *StatisticsHandler {
	t.Helper()
	uc, err := statisticsUC.New(staticStats{
		{ID: "1", Name: "Анна", Completed: 5, InWork: 1},
		{ID: "2", Name: "Борис", Completed: 2, Failed: 3},
		{ID: "3", Name: "Вера", Completed: 9},
	}, nil, statisticsUC.Config{}, nil)
	require.NoError(t, err)
	return NewStatisticsHandler(uc, httpcontext.NewAdapter(time.Second, locale.Russian), nil, locale.Russian, 2)
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Meta   json.RawMessage `json:"meta"`
}

func decodeEnvelope(t *testing.T, rc *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &env))
	return env
}

func TestStatisticsDashboard(t *testing.T) {
	h := newStatisticsHandler(t)
	var rc fasthttp.RequestCtx
	rc.Request.SetRequestURI("/api/v1/statistics?sort=completedDesc&page=2")

	h.Dashboard(&rc)
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())

	env := decodeEnvelope(t, &rc)
	var data struct {
		Items []statisticsUC.Row `json:"items"`
		KPI   domain.KpiSnapshot `json:"kpi"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, 3, data.Items[0].Rank)
	assert.Equal(t, "2", data.Items[0].ID)
	assert.Equal(t, 16, data.KPI.Completed)

	var meta struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestStatisticsDashboardBadQuery(t *testing.T) {
	h := newStatisticsHandler(t)
	var rc fasthttp.RequestCtx
	rc.Request.SetRequestURI("/api/v1/statistics?status=unknown")

	h.Dashboard(&rc)
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeInvalid), decodeEnvelope(t, &rc).Code)
}

func TestStatisticsMy(t *testing.T) {
	h := newStatisticsHandler(t)

	var anon fasthttp.RequestCtx
	h.My(&anon)
	require.Equal(t, http.StatusOK, anon.Response.StatusCode())
	assert.JSONEq(t, `{"status":"success","data":null}`, string(anon.Response.Body()))

	var mine fasthttp.RequestCtx
	mine.SetUserValue(httpcontext.UserValueUserID, "2")
	h.My(&mine)
	var stat domain.MyStatistic
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, &mine).Data, &stat))
	assert.Equal(t, domain.MyStatistic{Completed: 2, Failed: 3}, stat)
}

func TestTaskHandlerRequiresUser(t *testing.T) {
	h := NewTaskHandler(nil, nil, nil, locale.English, 10)
	var rc fasthttp.RequestCtx
	h.ListMy(&rc)
	assert.Equal(t, http.StatusUnauthorized, rc.Response.StatusCode())
}

type fixedStatus monitor.Status

func (f fixedStatus) GetStatus() monitor.Status { return monitor.Status(f) }

func TestHealth(t *testing.T) {
	var ok fasthttp.RequestCtx
	NewHealthHandler(fixedStatus{PostgreSQL: true}, nil, nil, nil).Check(&ok)
	assert.Equal(t, http.StatusOK, ok.Response.StatusCode())

	var buffered fasthttp.RequestCtx
	NewHealthHandler(fixedStatus{Buffer: true, BufferSize: 4}, nil, nil, nil).Check(&buffered)
	assert.Equal(t, http.StatusOK, buffered.Response.StatusCode())

	var down fasthttp.RequestCtx
	NewHealthHandler(fixedStatus{}, nil, nil, nil).Check(&down)
	assert.Equal(t, http.StatusServiceUnavailable, down.Response.StatusCode())
}
