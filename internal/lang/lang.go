package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// extToLang maps a lowercased file extension to a language label.
var extToLang = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".java":  "Java",
	".go":    "Go",
	".cpp":   "C++",
	".hpp":   "C++",
	".c":     "C",
	".h":     "C",
	".cs":    "C#",
	".rb":    "Ruby",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".rs":    "Rust",
	".sql":   "SQL",
	".sh":    "Shell",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".xml":   "XML",
	".md":    "Markdown",
	".css":   "CSS",
	".scss":  "SCSS",
	".html":  "HTML",
}

// Detect maps a file path to a language label by extension.
// Unknown extensions map to "Unknown".
func Detect(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := extToLang[ext]; ok {
		return l
	}
	return "Unknown"
}

// Pattern categories, in the order they appear in prompts.
const (
	CategorySecurityRisks     = "security_risks"
	CategoryPerformanceIssues = "performance_issues"
	CategoryErrorProne        = "error_prone"
)

// Categories lists the pattern categories in fixed prompt order.
var Categories = []string{
	CategorySecurityRisks,
	CategoryPerformanceIssues,
	CategoryErrorProne,
}

type pattern struct {
	source string
	re     *regexp.Regexp
}

func mustPatterns(sources ...string) []pattern {
	ps := make([]pattern, 0, len(sources))
	for _, s := range sources {
		ps = append(ps, pattern{source: s, re: regexp.MustCompile(s)})
	}
	return ps
}

var riskPatterns = map[string][]pattern{
	CategorySecurityRisks: mustPatterns(
		`eval\s*\(`,
		`exec\s*\(`,
		`subprocess\.`,
		`os\.system`,
		`password\s*=`,
		`api_key\s*=`,
		`token\s*=`,
		`\.exec\(`,
		`sqlite\s*\.`,
	),
	CategoryPerformanceIssues: mustPatterns(
		`while\s*True`,
		`\.sleep\(`,
		`\.all\(`,
		`\.filter\(`,
		`\.order_by\(`,
	),
	CategoryErrorProne: mustPatterns(
		`except\s*:`,
		`catch\s*\(\s*\)`,
		`null`,
		`undefined`,
		`TODO`,
		`FIXME`,
	),
}

// Match records one risk-pattern hit in file content.
type Match struct {
	LineNumber  int    `json:"line_number"`
	LineContent string `json:"line_content"`
	Pattern     string `json:"pattern"`
}

// ExtractPatterns scans content line by line against the fixed risk
// patterns plus any extras, recording every match with its 1-based line
// number and trimmed line text. Multiple patterns matching the same line
// are all recorded independently.
func ExtractPatterns(content string, extras map[string][]string) map[string][]Match {
	findings := make(map[string][]Match, len(Categories))
	for _, cat := range Categories {
		findings[cat] = []Match{}
	}

	compiled := make(map[string][]pattern, len(Categories))
	for cat, ps := range riskPatterns {
		compiled[cat] = ps
	}
	for cat, sources := range extras {
		for _, s := range sources {
			re, err := regexp.Compile(s)
			if err != nil {
				continue
			}
			compiled[cat] = append(compiled[cat], pattern{source: s, re: re})
			if _, known := findings[cat]; !known {
				findings[cat] = []Match{}
			}
		}
	}

	for i, line := range strings.Split(content, "\n") {
		for cat, ps := range compiled {
			for _, p := range ps {
				if p.re.MatchString(line) {
					findings[cat] = append(findings[cat], Match{
						LineNumber:  i + 1,
						LineContent: strings.TrimSpace(line),
						Pattern:     p.source,
					})
				}
			}
		}
	}

	return findings
}
