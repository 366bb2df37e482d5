package constants

// 本文件集中维护职业目录相关的静态数据：
// 职业描述、常见技能、职业到专业课程关键词的映射，
// 以及特征向量使用的技能/兴趣词表。
// 词表顺序即特征列顺序，调整顺序等同于更换模型版本。

// CareerDescriptions 职业简介，预测结果与洞察接口共用
var CareerDescriptions = map[string]string{
	"Software Engineer":          "Design, develop, and maintain software applications",
	"Data Scientist":             "Analyze complex data to help businesses make decisions",
	"Data Analyst":               "Interpret data and turn it into actionable insights",
	"Web Developer":              "Build and maintain websites and web applications",
	"Network Engineer":           "Design and manage computer networks",
	"Database Administrator":     "Manage and optimize database systems",
	"System Administrator":       "Operate and maintain server infrastructure",
	"DevOps Engineer":            "Bridge development and operations for faster delivery",
	"Machine Learning Engineer":  "Build and deploy machine learning models",
	"Business Analyst":           "Analyze business needs and propose solutions",
	"Product Manager":            "Lead product development and strategy",
	"Project Manager":            "Lead and coordinate project teams",
	"UI/UX Designer":             "Design user interfaces and experiences",
	"Cybersecurity Analyst":      "Protect systems from security threats",
	"Cloud Engineer":             "Design and manage cloud infrastructure",
	"Mobile App Developer":       "Build applications for mobile platforms",
	"Quality Assurance Engineer": "Ensure software quality through systematic testing",
	"Technical Writer":           "Produce documentation for technical products",
	"IT Consultant":              "Advise organizations on technology strategy",
	"AI Researcher":              "Research and develop AI technologies",
}

// CareerCommonSkills 各职业的常见技能，用于洞察接口
var CareerCommonSkills = map[string][]string{
	"Software Engineer":         {"Python", "Java", "Git", "Problem Solving", "Data Structures"},
	"Data Scientist":            {"Python", "Machine Learning", "Statistics", "SQL", "Data Visualization"},
	"Data Analyst":              {"Excel", "SQL", "Tableau", "Statistics", "Communication"},
	"Web Developer":             {"JavaScript", "HTML", "CSS", "React", "Node.js"},
	"DevOps Engineer":           {"Docker", "Kubernetes", "CI/CD", "Linux", "Cloud"},
	"Machine Learning Engineer": {"Python", "Deep Learning", "TensorFlow", "Mathematics", "MLOps"},
	"Business Analyst":          {"Excel", "SQL", "Communication", "Requirements Analysis", "Presentation"},
	"Cloud Engineer":            {"AWS", "Networking", "Linux", "Terraform", "Docker"},
	"Cybersecurity Analyst":     {"Networking", "Linux", "Security Tools", "Ethical Hacking", "Risk Assessment"},
	"UI/UX Designer":            {"Figma", "Design Thinking", "Prototyping", "User Research", "HTML"},
}

// DefaultCommonSkills 目录外职业的兜底技能列表
var DefaultCommonSkills = []string{"Technical Skills", "Problem Solving", "Communication"}

// CareerProgramKeywords 职业到尼泊尔高校专业课程关键词的映射，
// 键为小写职业名（子串匹配），值为课程表中出现的关键词。
var CareerProgramKeywords = map[string][]string{
	"software engineer":      {"computer science", "information technology", "software", "bca", "bsc csit", "computer application"},
	"data scientist":         {"data science", "computer science", "statistics", "mathematics", "machine learning"},
	"data analyst":           {"data", "statistics", "computer science", "information technology"},
	"web developer":          {"computer", "information technology", "bca", "software", "web"},
	"network engineer":       {"computer", "information technology", "networking", "electronics"},
	"database administrator": {"computer", "information technology", "database", "data"},
	"cybersecurity":          {"cybersecurity", "ethical hacking", "computer", "information security"},
	"machine learning":       {"computer science", "data science", "mathematics", "artificial intelligence"},
	"cloud engineer":         {"computer", "information technology", "networking"},
	"doctor":                 {"mbbs", "medicine", "medical", "health science"},
	"nurse":                  {"nursing", "bsc nursing", "health"},
	"pharmacist":             {"pharmacy", "pharmaceutical"},
	"civil engineer":         {"civil engineering", "construction"},
	"mechanical engineer":    {"mechanical engineering"},
	"electrical engineer":    {"electrical", "electronics"},
	"accountant":             {"accounting", "commerce", "bba", "bbs", "finance"},
	"business analyst":       {"business", "management", "bba", "mba"},
	"marketing":              {"marketing", "business", "management", "mba"},
	"hotel management":       {"hotel", "hospitality", "tourism"},
	"teacher":                {"education", "bed", "med"},
	"lawyer":                 {"law", "llb", "legal"},
	"psychologist":           {"psychology", "counseling"},
	"journalist":             {"journalism", "mass communication", "media"},
	"graphic designer":       {"design", "fine arts", "multimedia"},
	"architect":              {"architecture"},
	"agriculture":            {"agriculture", "agricultural"},
	"forestry":               {"forestry", "environmental"},
	"biotechnology":          {"biotechnology", "biomedical"},
}

// SkillVocabulary 特征向量使用的技能词表。
// 顺序固定：每个词占一个 one-hot 列，表外技能计入 skill_other 桶。
var SkillVocabulary = []string{
	"python", "java", "javascript", "c++", "sql", "r",
	"html", "css", "react", "node",
	"machine learning", "deep learning", "ai",
	"cloud computing", "aws", "docker", "kubernetes", "linux",
	"networking", "cybersecurity", "database", "git",
	"excel", "tableau", "power bi",
	"communication", "leadership", "analytical", "problem solving",
	"critical thinking", "project management", "presentation",
	"design", "ui/ux", "finance", "accounting", "marketing", "sales",
}

// InterestVocabulary 特征向量使用的兴趣词表，规则同上，
// 表外兴趣计入 interest_other 桶。
var InterestVocabulary = []string{
	"data science", "software development", "web development",
	"artificial intelligence", "cybersecurity", "cloud computing",
	"mobile development", "game development", "networking",
	"design", "business", "management", "finance", "marketing",
	"research", "teaching", "healthcare", "agriculture",
}
