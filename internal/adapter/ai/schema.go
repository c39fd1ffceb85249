// Package ai implements the LLM response ingestion pipeline: prompt
// construction, heuristic JSON repair, structural validation and total
// normalization of analysis results.
package ai

import "github.com/ranqi-ly/soul-matrix-ai/internal/domain"

// The upstream model is prompted with one of two field-naming conventions
// (latin or localized). Ingestion accepts both: every canonical field name
// maps to the aliases the model may emit for it. Alias lists start with the
// canonical JSON name so that re-normalizing an already-normalized result is
// a no-op.
var keyAliases = map[string][]string{
	"matchScore":          {"matchScore", "match_score", "匹配度"},
	"dimensionAnalysis":   {"dimensionAnalysis", "dimension_analysis", "维度分析"},
	"ageAnalysis":         {"ageAnalysis", "age_analysis", "年龄段分析"},
	"developmentAdvice":   {"developmentAdvice", "development_advice", "发展阶段建议"},
	"score":               {"score", "分数"},
	"strengths":           {"strengths", "优势"},
	"challenges":          {"challenges", "挑战"},
	"characteristics":     {"characteristics", "特征"},
	"referenceCase":       {"referenceCase", "reference_case", "参考案例"},
	"statistics":          {"statistics", "统计数据"},
	"peerGroupTraits":     {"peerGroupTraits", "peer_group_traits", "同龄群体婚恋特点"},
	"successRateData":     {"successRateData", "success_rate_data", "成功率数据"},
	"keyFactors":          {"keyFactors", "key_factors", "关键影响因素"},
	"currentStage":        {"currentStage", "current_stage", "当前阶段"},
	"shortTerm":           {"shortTerm", "short_term", "短期"},
	"midTerm":             {"midTerm", "mid_term", "中期"},
	"longTerm":            {"longTerm", "long_term", "长期"},
	"timeRange":           {"timeRange", "time_range", "时间范围"},
	"keyTasks":            {"keyTasks", "key_tasks", "重点任务"},
	"risks":               {"risks", "潜在风险"},
	"referenceCases":      {"referenceCases", "reference_cases", "参考案例"},
	"successProbability":  {"successProbability", "success_probability", "成功概率"},
	"task":                {"task", "任务"},
	"specificGoal":        {"specificGoal", "specific_goal", "具体目标"},
	"measurementStandard": {"measurementStandard", "measurement_standard", "衡量标准"},
	"feasibility":         {"feasibility", "可行性"},
	"relevance":           {"relevance", "相关性"},
	"timeline":            {"timeline", "时间节点"},
	"risk":                {"risk", "风险"},
	"prevention":          {"prevention", "预防措施"},
	"countermeasure":      {"countermeasure", "应对方案"},
	"title":               {"title", "标题"},
	"description":         {"description", "描述"},
}

// dimensionAliases maps the five fixed dimension keys to accepted spellings.
var dimensionAliases = map[string][]string{
	domain.DimPersonality:   {domain.DimPersonality, "personality_match", "性格匹配度"},
	domain.DimCommunication: {domain.DimCommunication, "communication_style", "沟通方式"},
	domain.DimValues:        {domain.DimValues, "价值观"},
	domain.DimLifestyle:     {domain.DimLifestyle, "生活方式"},
	domain.DimGrowth:        {domain.DimGrowth, "growth_potential", "成长潜力"},
}

// field resolves a canonical field name against an untrusted object,
// trying each accepted alias in order.
func field(m map[string]any, name string) (any, bool) {
	aliases, ok := keyAliases[name]
	if !ok {
		aliases = []string{name}
	}
	for _, k := range aliases {
		if v, present := m[k]; present {
			return v, true
		}
	}
	return nil, false
}

// dimensionField resolves one of the five fixed dimensions in a
// dimension-analysis object.
func dimensionField(m map[string]any, dim string) (any, bool) {
	for _, k := range dimensionAliases[dim] {
		if v, present := m[k]; present {
			return v, true
		}
	}
	return nil, false
}
