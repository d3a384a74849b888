package views

// SiteConfig holds the site-wide settings components need. Every renderer
// passes this down so nothing is hardcoded.
type SiteConfig struct {
	Name        string // shown in document titles
	URL         string // canonical base URL
	Description string
	Author      string
	Locale      string // monday locale, e.g. "en_US" or "ko_KR"
}

// Labels are the user-visible strings of the blog pages.
type Labels struct {
	All            string // the "all" pseudo-tag
	Empty          string // empty-state message
	ErrorTitle     string
	NoPost         string // post parameter missing
	LoadFailed     string // post fetch failed
	BackToList     string
	RendererFailed string
	NotFound       string
}

var labels = map[string]Labels{
	"en_US": {
		All:            "All",
		Empty:          "No posts found.",
		ErrorTitle:     "Error",
		NoPost:         "The post could not be found.",
		LoadFailed:     "Something went wrong while loading the post.",
		BackToList:     "Back to the list",
		RendererFailed: "The markdown renderer failed to load.",
		NotFound:       "Page not found",
	},
	"ko_KR": {
		All:            "전체",
		Empty:          "게시글이 없습니다.",
		ErrorTitle:     "오류",
		NoPost:         "게시글을 찾을 수 없습니다.",
		LoadFailed:     "게시글을 불러오는 중 오류가 발생했습니다.",
		BackToList:     "목록으로 돌아가기",
		RendererFailed: "마크다운 파서를 불러오는 데 실패했습니다.",
		NotFound:       "페이지를 찾을 수 없습니다",
	},
}

// LabelsFor returns the labels for locale, falling back to English.
func LabelsFor(locale string) Labels {
	if l, ok := labels[locale]; ok {
		return l
	}
	return labels[DefaultLocale]
}

// DefaultLocale is used when the site does not configure one.
const DefaultLocale = "en_US"
