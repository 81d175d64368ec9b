// ABOUTME: Fixed vocabularies the policy and case generators draw from.
// ABOUTME: Every generated field is a template, a pick from these lists, or a random number.

package seed

var policyRegions = []string{"北京", "上海", "广东", "浙江", "江苏", "四川", "陕西", "山东", "河南", "湖北"}

var policyLevels = []string{"国家级", "省级", "市级"}

var policyTitles = []string{
	"关于促进文化产业高质量发展的实施意见",
	"文旅融合发展专项资金管理办法",
	"非物质文化遗产保护与传承条例",
	"数字文化产业发展扶持计划",
	"文创产业园区建设指导意见",
	"文化旅游消费促进实施方案",
	"文物活化利用创新试点方案",
	"乡村文旅振兴行动计划",
	"夜间经济发展扶持政策",
	"文创人才引进培育办法",
}

var policyKeywords = []string{"文创", "文旅", "非遗", "数字化", "产业融合", "消费升级", "乡村振兴", "夜间经济"}

const (
	policyKeywordCount = 3
	policyContent      = "政策详细内容..."
)

type category struct {
	Code string
	Name string
}

var caseCategories = []category{
	{Code: "museum", Name: "博物馆文创"},
	{Code: "ip", Name: "IP运营"},
	{Code: "destination", Name: "文旅目的地"},
	{Code: "brand", Name: "新消费品牌"},
}

type company struct {
	Name     string
	Location string
}

var caseCompanies = []company{
	{Name: "故宫博物院", Location: "北京"},
	{Name: "泡泡玛特国际集团", Location: "北京"},
	{Name: "西安曲江文化产业集团", Location: "西安"},
	{Name: "杭州宜格化妆品有限公司", Location: "杭州"},
	{Name: "北京观夏文化传播有限公司", Location: "北京"},
	{Name: "敦煌研究院", Location: "敦煌"},
	{Name: "阿那亚控股集团", Location: "秦皇岛"},
	{Name: "湖南茶悦文化产业集团", Location: "长沙"},
}

var caseNames = []string{
	"文创IP孵化与运营项目",
	"沉浸式文旅演艺产品",
	"非遗活化创新实践",
	"数字文创产品开发",
	"文旅综合体运营案例",
	"文创品牌出海战略",
	"夜间经济创新模式",
	"乡村振兴文旅融合",
}

var caseLogos = []string{"🏛️", "🎨", "🎭", "🏮", "📚", "🎁", "🌸", "🎪"}

var caseHighlights = []string{"年营收超10亿", "客流超千万", "IP估值过亿", "行业标杆", "创新模式"}

var caseTags = []string{"文创", "IP", "文旅", "非遗", "数字化", "国潮", "创新", "标杆"}

const caseTagCount = 4

// Name prefix length, in characters, taken from the company name.
const caseNamePrefix = 4

var caseSuccessFactors = []string{
	"精准的市场定位与用户需求洞察",
	"创新的产品设计与文化表达",
	"全渠道营销与品牌传播策略",
	"持续的IP孵化与内容运营",
}

const (
	caseBusinessModel = "通过文创产品开发、IP授权、文旅服务等多维度商业模式，实现文化价值与商业价值的统一。"
	caseBackground    = "项目启动背景..."
	caseStrategy      = "战略定位..."
	caseExecution     = "执行过程..."
	caseResults       = "成果展示..."
	caseLessons       = "经验总结..."
)

// Inclusive ranges for the placeholder numbers.
const (
	revenueMin, revenueMax           = 1, 50
	usersMin, usersMax               = 100, 1000
	productLinesMin, productLinesMax = 10, 100
	foundedMin, foundedMax           = 2015, 2023
	idSuffixMin, idSuffixMax         = 1000, 9999
)
