package pipeline

import "fmt"

type Stage string

const (
	StageScrape   Stage = "scrape"
	StageGenerate Stage = "generate"
	StageUpload   Stage = "upload"
	StageAll      Stage = "all"
)

func ParseStage(s string) (Stage, error) {
	switch st := Stage(s); st {
	case StageScrape, StageGenerate, StageUpload, StageAll:
		return st, nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// needsUpload reports whether the stage reaches the blob publisher.
func (s Stage) needsUpload() bool { return s == StageUpload || s == StageAll }
