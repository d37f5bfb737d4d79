package copyright

import (
	"fmt"
	"regexp"
	"strings"
)

const namesPromptTemplate = "请基于'%s'这个领域或专业方向，生成10个适合软件著作权申请的软件名称，" +
	"名字要长要专业一点，名称必须以软件、系统、平台结尾。" +
	"只需要告诉我名称就行，不用告诉我其他东西，不用标序号！不可以标序号。" +
	"每个名称单独一行。"

// minNames is the count below which FallbackNames tops up a suggestion list.
const minNames = 5

var (
	nameSuffixes  = []string{"软件", "系统", "平台"}
	leadingNumber = regexp.MustCompile(`^\d+[.、]\s*`)
)

// NamesPrompt returns the instruction sent to the model for domain.
func NamesPrompt(domain string) string {
	return fmt.Sprintf(namesPromptTemplate, domain)
}

// NameLines extracts software names from model output: one per line, only
// lines ending in 软件, 系统 or 平台, with any leading "1." or "1、" removed.
func NameLines(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !hasNameSuffix(line) {
			continue
		}
		names = append(names, leadingNumber.ReplaceAllString(line, ""))
	}
	return names
}

func hasNameSuffix(s string) bool {
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// FallbackNames appends five generic names for domain when fewer than five
// were parsed.
func FallbackNames(domain string, names []string) []string {
	if len(names) >= minNames {
		return names
	}
	return append(names,
		domain+"智能管理系统",
		domain+"数据分析平台",
		domain+"云服务软件",
		domain+"协同办公系统",
		domain+"自动化控制系统",
	)
}
