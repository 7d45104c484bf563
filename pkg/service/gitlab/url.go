package gitlab

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidMergeRequestURL indicates the given URL is not a GitLab merge
// request URL. Resolution never returns a partial result.
var ErrInvalidMergeRequestURL = goerr.New("invalid merge request URL")

// MergeRequestRef identifies a merge request by project path and IID
type MergeRequestRef struct {
	ProjectPath string
	IID         int
}

// EncodedProjectPath returns the project path percent-encoded for use as a
// single path segment in an API URL (slashes encoded)
func (r *MergeRequestRef) EncodedProjectPath() string {
	return url.PathEscape(r.ProjectPath)
}

// ParseMergeRequestURL extracts the project path and merge request IID from a
// GitLab MR URL such as https://gitlab.com/group/project/-/merge_requests/123.
// The project path is every segment between the host and the "-" separator,
// so nested groups are preserved.
func ParseMergeRequestURL(raw string) (*MergeRequestRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidMergeRequestURL, "failed to parse URL", goerr.V("url", raw))
	}

	parts := strings.Split(u.Path, "/")

	mrIdx := -1
	for i, part := range parts {
		if part == "merge_requests" {
			mrIdx = i
			break
		}
	}
	if mrIdx < 0 || mrIdx+1 >= len(parts) {
		return nil, goerr.Wrap(ErrInvalidMergeRequestURL, "no merge_requests segment", goerr.V("url", raw))
	}

	iid, err := strconv.Atoi(parts[mrIdx+1])
	if err != nil || iid <= 0 {
		return nil, goerr.Wrap(ErrInvalidMergeRequestURL, "merge request IID is not a positive integer", goerr.V("url", raw))
	}

	if mrIdx < 2 || parts[mrIdx-1] != "-" {
		return nil, goerr.Wrap(ErrInvalidMergeRequestURL, "missing '-' separator before merge_requests", goerr.V("url", raw))
	}

	projectPath := strings.Join(parts[1:mrIdx-1], "/")
	if projectPath == "" {
		return nil, goerr.Wrap(ErrInvalidMergeRequestURL, "empty project path", goerr.V("url", raw))
	}

	return &MergeRequestRef{
		ProjectPath: projectPath,
		IID:         iid,
	}, nil
}
