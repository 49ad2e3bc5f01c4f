package download

import "portfolio/internal/utils/jsonfile"

// Kind selects the filename prefix of a downloaded asset.
type Kind string

const (
	KindImage Kind = "img"
	KindVideo Kind = "vid"
)

// DownloadResult describes one asset saved to disk. Kind selects the JSON
// shape: images always carry alt, videos always carry type.
type DownloadResult struct {
	Kind        Kind   `json:"-"`
	LocalPath   string `json:"localPath"`
	OriginalURL string `json:"originalUrl"`
	Alt         string `json:"alt,omitempty"`
	Filename    string `json:"filename"`
	Type        string `json:"type,omitempty"`
}

type imageJSON struct {
	LocalPath   string `json:"localPath"`
	OriginalURL string `json:"originalUrl"`
	Alt         string `json:"alt"`
	Filename    string `json:"filename"`
}

type videoJSON struct {
	LocalPath   string `json:"localPath"`
	OriginalURL string `json:"originalUrl"`
	Type        string `json:"type"`
	Filename    string `json:"filename"`
}

func (r DownloadResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindImage:
		return jsonfile.Marshal(imageJSON{LocalPath: r.LocalPath, OriginalURL: r.OriginalURL, Alt: r.Alt, Filename: r.Filename})
	case KindVideo:
		return jsonfile.Marshal(videoJSON{LocalPath: r.LocalPath, OriginalURL: r.OriginalURL, Type: r.Type, Filename: r.Filename})
	}
	type plain DownloadResult
	return jsonfile.Marshal(plain(r))
}

// Outcome is the result of one download attempt. Exactly one of Result and
// Err is set.
type Outcome struct {
	URL    string
	Result *DownloadResult
	Err    error
}

// Partition splits outcomes into saved results and failures, keeping order.
func Partition(outcomes []Outcome) ([]DownloadResult, []Outcome) {
	ok := []DownloadResult{}
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			failed = append(failed, o)
			continue
		}
		ok = append(ok, *o.Result)
	}
	return ok, failed
}

// PageMedia holds the download outcomes of one page.
type PageMedia struct {
	Images []Outcome
	Videos []Outcome
}
