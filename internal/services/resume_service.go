package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/providers/llm"
	"github.com/yoockh/hirex/internal/utils"
)

const structureSystemPrompt = `You convert unstructured resume text into one JSON object.
Extract every relevant detail and return syntactically valid JSON only, with exactly this shape:

{
  "jobDescription": "Target role, e.g. Software Engineer",
  "user": {
    "personalDetails": {
      "name": "Full Name",
      "email": "Email",
      "phone": "Phone Number",
      "portfolio": "Portfolio URL",
      "summary": "Short professional summary"
    },
    "socialLinks": {
      "LinkedIn": "LinkedIn URL",
      "GitHub": "GitHub URL",
      "Leetcode": "Leetcode URL"
    },
    "education": ["Degree from University (Year, GPA)"],
    "experience": [
      {"company": "Company Name", "role": "Job Title", "duration": "Start - End", "description": "Responsibilities and achievements"}
    ],
    "projects": [
      {"name": "Project Name", "description": "Project Description", "link": "Project Link"}
    ],
    "skills": ["Skill"],
    "achievements": ["Achievement"],
    "certifications": ["Certification Name (Provider) - Certificate Link"],
    "otherDetails": "Languages, volunteering, other relevant info"
  }
}

When a detail is missing infer a reasonable placeholder. When a whole section is missing return an empty list for it.`

type ResumeService interface {
	// Structure turns extracted resume text into the structured resume JSON object.
	Structure(ctx context.Context, extractedText string) (json.RawMessage, error)
}

type resumeService struct {
	llm llm.Provider
	log logrus.FieldLogger
}

func NewResumeService(p llm.Provider, l logrus.FieldLogger) ResumeService {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &resumeService{llm: p, log: l}
}

func (s *resumeService) Structure(ctx context.Context, extractedText string) (json.RawMessage, error) {
	const op = "ResumeService.Structure"

	if strings.TrimSpace(extractedText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "missing extractedText", nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume parser is not configured", nil)
	}

	out, err := s.llm.GenerateJSON(ctx, structureSystemPrompt, "Resume Text:\n"+extractedText)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, utils.E(utils.CodeTimeout, op, "resume parser timed out", err)
		}
		s.log.WithError(err).Warn("resume structuring failed")
		return nil, utils.E(utils.CodeUnavailable, op, "failed to parse resume", err)
	}

	raw := json.RawMessage(llm.CleanJSON(out))
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		s.log.WithError(err).WithField("output_len", len(out)).Warn("resume parser returned non-JSON output")
		return nil, utils.E(utils.CodeUnavailable, op, "resume parser returned invalid JSON", err)
	}
	return raw, nil
}
