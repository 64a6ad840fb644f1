package service

import (
	"fmt"

	"github.com/jimyag/tagforge/pkg/idgen"
)

func newTagID() (string, error) {
	id, err := idgen.GenerateTagID()
	if err != nil {
		return "", fmt.Errorf("generate tag id: %w", err)
	}
	return id, nil
}

func newValueID() (string, error) {
	id, err := idgen.GenerateValueID()
	if err != nil {
		return "", fmt.Errorf("generate value id: %w", err)
	}
	return id, nil
}

func newSubmissionID() (string, error) {
	id, err := idgen.GenerateSubmissionID()
	if err != nil {
		return "", fmt.Errorf("generate submission id: %w", err)
	}
	return id, nil
}
