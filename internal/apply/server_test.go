package apply

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirex/internal/api/handlers"
	"github.com/yoockh/hirex/internal/resume"
	"github.com/yoockh/hirex/internal/services"
)

type cannedModel struct {
	mu    sync.Mutex
	calls int
}

func (m *cannedModel) GenerateJSON(context.Context, string, string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return "```json\n{\"user\":{\"personalDetails\":{\"name\":\"Ada\"}},\"skills\":[\"go\"]}\n```", nil
}

func (m *cannedModel) Close() error { return nil }

// newParserServer serves /api/parseResume with the real resume handler and
// service. Job lookup and submission stay on fakeAPI.
func newParserServer(t *testing.T, api *fakeAPI, model *cannedModel, scorer Scorer) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l, _ := test.NewNullLogger()

	r := gin.New()
	r.POST("/api/parseResume",
		func(c *gin.Context) { api.record("parse", c.Request) },
		handlers.NewResumeHandler(services.NewResumeService(model, l)).Parse)
	rest := gin.WrapH(api.handler())
	r.GET("/api/jobs/:id", rest)
	r.POST("/api/jobs/:id/applications", rest)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "tok", scorer, srv.Client(), l)
}

func TestApplyAgainstResumeHandler(t *testing.T) {
	cases := []struct {
		name      string
		resume    Resume
		text      string
		wantParse int
	}{
		{
			name:   "docx",
			resume: Resume{Filename: "cv.docx", ContentType: resume.MIMEDOCX, Data: []byte("PK\x03\x04 docx bytes")},
		},
		{
			name:   "corrupt pdf",
			resume: Resume{Filename: "cv.pdf", ContentType: resume.MIMEPDF, Data: []byte("%PDF-1.4\nbroken")},
		},
		{
			name:      "readable pdf",
			resume:    pdfResume(),
			text:      "Ada Lovelace\nGo developer",
			wantParse: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			model := &cannedModel{}
			scorer := &fakeScorer{result: scoredResult()}
			c := newParserServer(t, api, model, scorer)
			if tc.text != "" {
				readsAs(c, tc.text)
			}

			app, err := c.Apply(context.Background(), "job1", Applicant{FullName: "Ada", Email: "ada@example.com", Phone: "123"}, tc.resume)
			require.NoError(t, err)
			assert.False(t, app.ID.IsZero())

			assert.Equal(t, tc.wantParse, api.count("parse"))
			assert.Equal(t, tc.wantParse, model.calls)
			assert.Equal(t, 1, scorer.calls)
			assert.Equal(t, 1, api.count("submit"))
			assert.Equal(t, tc.resume.Data, api.fileBytes)
			if tc.wantParse > 0 {
				assert.JSONEq(t, `{"user":{"personalDetails":{"name":"Ada"}},"skills":["go"]}`, string(scorer.gotResume))
			} else {
				assert.Nil(t, scorer.gotResume)
			}
		})
	}
}

func TestResumeHandlerRejectsBlankText(t *testing.T) {
	api := &fakeAPI{}
	c := newParserServer(t, api, &cannedModel{}, &fakeScorer{result: scoredResult()})

	// calling the parser directly with nothing extracted is what Apply avoids
	_, err := c.parseResume(context.Background(), "  ")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "INVALID_ARGUMENT", apiErr.Code)
}
