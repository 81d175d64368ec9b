// ABOUTME: Text rendering for collection reports and read-only progress summaries.
// ABOUTME: Percentages use one decimal; the remaining-hours figure is a fixed-rate estimate.

package collect

import (
	"fmt"
	"strings"

	"github.com/alandan97/wenchang-code/internal/progress"
)

const rule = "=================================================="

// Sub-steps listed under each analyzed case.
var analysisSteps = []string{
	"产品定位分析",
	"用户画像构建",
	"渠道矩阵梳理",
	"SWOT分析",
	"未来展望规划",
}

// Render builds the report for a completed pass.
func Render(res *Result, opts Options) string {
	st := res.State
	lines := []string{
		rule,
		"📊 文创指南数据收集报告",
		fmt.Sprintf("⏰ 时间: %s", res.ReportedAt.Format("2006-01-02 15:04:05")),
		rule,
		"",
		"📜 政策收集:",
		fmt.Sprintf("   本次新增: %d 条", res.PoliciesAdded),
		fmt.Sprintf("   累计进度: %d/%d (%.1f%%)", st.PoliciesCount, opts.TargetPolicies, Percent(st.PoliciesCount, opts.TargetPolicies)),
		"",
		"🏆 案例收集:",
		fmt.Sprintf("   本次新增: %d 个", res.CasesAdded),
		fmt.Sprintf("   累计进度: %d/%d (%.1f%%)", st.CasesCount, opts.TargetCases, Percent(st.CasesCount, opts.TargetCases)),
		"",
	}

	if res.CasesAdded > 0 {
		lines = append(lines, "🔍 文创分析师深度分析:")
		for _, name := range res.AnalyzedCases {
			lines = append(lines, fmt.Sprintf("   ✓ 已分析: %s", name))
			for _, step := range analysisSteps {
				lines = append(lines, "     - "+step)
			}
		}
	}

	lines = append(lines,
		"",
		"📈 总体进度:",
		fmt.Sprintf("   完成度: %.1f%%", TotalPercent(st, opts)),
		fmt.Sprintf("   预计剩余时间: %d 小时", RemainingHours(st, opts)),
		rule,
	)
	return strings.Join(lines, "\n")
}

// Summary renders the current progress without running a pass.
func Summary(st *progress.State, opts Options) string {
	lines := []string{
		fmt.Sprintf("📜 政策: %d/%d (%.1f%%)", st.PoliciesCount, opts.TargetPolicies, Percent(st.PoliciesCount, opts.TargetPolicies)),
		fmt.Sprintf("🏆 案例: %d/%d (%.1f%%)", st.CasesCount, opts.TargetCases, Percent(st.CasesCount, opts.TargetCases)),
		fmt.Sprintf("📈 完成度: %.1f%%", TotalPercent(st, opts)),
		fmt.Sprintf("   预计剩余时间: %d 小时", RemainingHours(st, opts)),
		fmt.Sprintf("   最近更新: %s", st.LastUpdate.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("   收集次数: %d", len(st.Sessions)),
	}
	return strings.Join(lines, "\n")
}

// Percent returns count as a percentage of target.
func Percent(count, target int) float64 {
	return float64(count) / float64(target) * 100
}

// TotalPercent returns both counters combined as a percentage of both targets.
func TotalPercent(st *progress.State, opts Options) float64 {
	return Percent(st.PoliciesCount+st.CasesCount, opts.TargetPolicies+opts.TargetCases)
}

// RemainingHours divides the combined remaining gap by the fixed hourly rate,
// rounding toward negative infinity. It is not a forecast.
func RemainingHours(st *progress.State, opts Options) int {
	remaining := opts.TargetPolicies + opts.TargetCases - st.PoliciesCount - st.CasesCount
	return floorDiv(remaining, opts.HourlyRate)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
