package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirex/internal/utils"
)

func TestStructureReturnsModelJSON(t *testing.T) {
	model := &fakeLLM{out: "```json\n{\"jobDescription\":\"Backend\",\"user\":{\"skills\":[\"Go\"]}}\n```"}
	svc := NewResumeService(model, nil)

	out, err := svc.Structure(context.Background(), "Jane Doe\nGo developer")
	require.NoError(t, err)
	assert.JSONEq(t, `{"jobDescription":"Backend","user":{"skills":["Go"]}}`, string(out))
	assert.Equal(t, "Resume Text:\nJane Doe\nGo developer", model.prompt)
	assert.Contains(t, model.system, `"personalDetails"`)
}

func TestStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
		text string
		code utils.Code
	}{
		{"empty text", &fakeLLM{}, "   ", utils.CodeInvalidArgument},
		{"provider error", &fakeLLM{err: errors.New("quota")}, "cv", utils.CodeUnavailable},
		{"timeout", &fakeLLM{err: context.DeadlineExceeded}, "cv", utils.CodeTimeout},
		{"not json", &fakeLLM{out: "Sure! Here is the resume"}, "cv", utils.CodeUnavailable},
		{"json array", &fakeLLM{out: `[1,2]`}, "cv", utils.CodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResumeService(tt.llm, nil).Structure(context.Background(), tt.text)
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, tt.code), "got %v", err)
		})
	}
}
