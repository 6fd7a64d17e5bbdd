package main

import (
	"errors"
	"fmt"

	"github.com/mymmrac/telego/telegoapi"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	gemini "google.golang.org/genai"
)

// Stage names the pipeline step an error came from
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageGenerate   Stage = "generate"
	StageSynthesize Stage = "synthesize"
	StageDeliver    Stage = "deliver"
)

var (
	ErrEmptyScript = errors.New("generation returned an empty script")
	ErrNoAudio     = errors.New("speech response carried no audio")
	ErrMissingEnv  = errors.New("missing required environment variables")
)

// StageError is returned by every pipeline step. StatusCode and Detail hold the
// remote HTTP status and error message when the failure came from an API call.
type StageError struct {
	Stage      Stage
	StatusCode int
	Detail     string
	Err        error
}

func (e *StageError) Error() string {
	msg := string(e.Stage) + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	switch {
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	case e.Detail != "":
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// newStageError wraps err for the given stage, pulling the remote status out of
// any API error type the pipeline's clients return.
func newStageError(stage Stage, err error) *StageError {
	code, detail := remoteStatus(err)
	return &StageError{Stage: stage, StatusCode: code, Detail: detail, Err: err}
}

func remoteStatus(err error) (int, string) {
	var gapiErr *googleapi.Error
	if errors.As(err, &gapiErr) {
		return gapiErr.Code, gapiErr.Message
	}
	var genErr gemini.APIError
	if errors.As(err, &genErr) {
		return genErr.Code, genErr.Message
	}
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return oaiErr.HTTPStatusCode, oaiErr.Message
	}
	var oaiReqErr *openai.RequestError
	if errors.As(err, &oaiReqErr) {
		return oaiReqErr.HTTPStatusCode, ""
	}
	var tgErr *telegoapi.Error
	if errors.As(err, &tgErr) {
		return tgErr.ErrorCode, tgErr.Description
	}
	return 0, ""
}
