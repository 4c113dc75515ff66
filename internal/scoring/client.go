package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yoockh/hirex/internal/models"
)

// Ranker produces the AI analysis of a structured resume against a job description.
type Ranker interface {
	Rank(ctx context.Context, structuredResume json.RawMessage, jobDescription string) (*models.AIAnalysis, error)
}

// SimilarityScorer returns the cosine similarity between a job description and raw resume text.
type SimilarityScorer interface {
	Similarity(ctx context.Context, jobDescription, resumeText string) (float64, error)
}

// WebhookError carries the status and body of a non-2xx webhook reply.
type WebhookError struct {
	Webhook string
	Status  int
	Body    string
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("%s webhook returned status %d: %s", e.Webhook, e.Status, e.Body)
}

type rankingRequest struct {
	Resume         json.RawMessage `json:"resume"`
	JobDescription string          `json:"job_description"`
}

type rankingResponse struct {
	Output *models.AIAnalysis `json:"output"`
}

type similarityRequest struct {
	JobDescription string `json:"job_description"`
	ResumeText     string `json:"resume_text"`
}

type similarityResponse struct {
	SimilarityScore *float64 `json:"similarity_score"`
}

// RankingClient calls the ranking webhook.
type RankingClient struct {
	url        string
	httpClient *http.Client
}

func NewRankingClient(url string, hc *http.Client) *RankingClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &RankingClient{url: url, httpClient: hc}
}

func (c *RankingClient) Rank(ctx context.Context, structuredResume json.RawMessage, jobDescription string) (*models.AIAnalysis, error) {
	if len(structuredResume) == 0 {
		structuredResume = json.RawMessage("null")
	}
	var out rankingResponse
	if err := postJSON(ctx, c.httpClient, "ranking", c.url, rankingRequest{
		Resume:         structuredResume,
		JobDescription: jobDescription,
	}, &out); err != nil {
		return nil, err
	}
	if out.Output == nil {
		return nil, errors.New("ranking webhook response has no output")
	}
	return out.Output, nil
}

// SimilarityClient calls the similarity webhook.
type SimilarityClient struct {
	url        string
	httpClient *http.Client
}

func NewSimilarityClient(url string, hc *http.Client) *SimilarityClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &SimilarityClient{url: url, httpClient: hc}
}

func (c *SimilarityClient) Similarity(ctx context.Context, jobDescription, resumeText string) (float64, error) {
	var out similarityResponse
	if err := postJSON(ctx, c.httpClient, "similarity", c.url, similarityRequest{
		JobDescription: jobDescription,
		ResumeText:     resumeText,
	}, &out); err != nil {
		return 0, err
	}
	if out.SimilarityScore == nil {
		return 0, errors.New("similarity webhook response has no similarity_score")
	}
	return *out.SimilarityScore, nil
}

func postJSON(ctx context.Context, hc *http.Client, name, url string, body, dst any) error {
	if url == "" {
		return fmt.Errorf("%s webhook url is not configured", name)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s webhook request failed: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &WebhookError{Webhook: name, Status: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}
