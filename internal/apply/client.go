package apply

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/resume"
	"github.com/yoockh/hirex/internal/scoring"
)

// Scorer is satisfied by *scoring.Orchestrator.
type Scorer interface {
	Score(ctx context.Context, structuredResume json.RawMessage, jobDescription, resumeText string) (*scoring.Result, error)
}

// APIError is a non-2xx reply from the hirex API.
type APIError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

type Applicant struct {
	FullName string
	Email    string
	Phone    string
}

// Resume is the file being submitted. An empty ContentType is sniffed from Data.
type Resume struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	scorer     Scorer
	log        logrus.FieldLogger
	extract    func(data []byte, contentType string) (string, error)
}

func NewClient(baseURL, token string, scorer Scorer, hc *http.Client, l logrus.FieldLogger) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: hc,
		scorer:     scorer,
		log:        l,
		extract:    resume.ExtractBytes,
	}
}

type applicationData struct {
	FullName   string             `json:"fullName"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	ResumeText string             `json:"resumeText"`
	AIAnalysis *models.AIAnalysis `json:"aiAnalysis"`
	Cosine     float64            `json:"cosine"`
}

type submitResponse struct {
	Message     string             `json:"message"`
	Application models.Application `json:"application"`
}

// Apply runs the full applicant flow for one job: validate, extract, structure,
// score, submit. Structuring is skipped when no text could be extracted.
// Any failure stops the flow and nothing further is sent.
func (c *Client) Apply(ctx context.Context, jobID string, who Applicant, r Resume) (*models.Application, error) {
	ct := r.ContentType
	if ct == "" {
		sniffed, _, err := resume.Sniff(bytes.NewReader(r.Data))
		if err != nil {
			return nil, fmt.Errorf("detect resume type: %w", err)
		}
		ct = sniffed
	}
	ct = resume.NormalizeType(ct)
	if err := resume.Validate(ct, int64(len(r.Data))); err != nil {
		return nil, err
	}

	log := c.log.WithField("job_id", jobID)

	text, err := c.extract(r.Data, ct)
	if err != nil {
		log.WithError(err).Warn("resume text extraction failed, continuing with empty text")
		text = ""
	}

	// Word files and unreadable PDFs have no text; the parser rejects that, so
	// scoring gets a null resume instead.
	var structured json.RawMessage
	if strings.TrimSpace(text) != "" {
		structured, err = c.parseResume(ctx, text)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("no resume text to structure")
	}

	job, err := c.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result, err := c.scorer.Score(ctx, structured, job.Description, text)
	if err != nil {
		return nil, fmt.Errorf("score resume: %w", err)
	}
	log.WithFields(logrus.Fields{
		"ranking_score": result.Analysis.CumulativeRankingScore,
		"similarity":    result.Similarity,
	}).Info("resume scored")

	analysis := result.Analysis
	return c.submit(ctx, jobID, applicationData{
		FullName:   who.FullName,
		Email:      who.Email,
		Phone:      who.Phone,
		ResumeText: text,
		AIAnalysis: &analysis,
		Cosine:     result.Similarity,
	}, r.Filename, ct, r.Data)
}

func (c *Client) parseResume(ctx context.Context, text string) (json.RawMessage, error) {
	const op = "parse resume"

	body, err := json.Marshal(map[string]string{"extractedText": text})
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, op, http.MethodPost, "/api/parseResume", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s: response is not JSON", op)
	}
	return json.RawMessage(raw), nil
}

func (c *Client) getJob(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "get job"

	raw, err := c.do(ctx, op, http.MethodGet, "/api/jobs/"+jobID, "", nil)
	if err != nil {
		return nil, err
	}
	var job models.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return &job, nil
}

func (c *Client) submit(ctx context.Context, jobID string, data applicationData, filename, contentType string, file []byte) (*models.Application, error) {
	const op = "submit application"

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("applicationData", string(payload)); err != nil {
		return nil, err
	}
	// explicit part header so the server sees the real type instead of octet-stream
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, op, http.MethodPost, "/api/jobs/"+jobID+"/applications", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	var out submitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return &out.Application, nil
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &e) == nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Message
		}
		return nil, apiErr
	}
	return raw, nil
}
