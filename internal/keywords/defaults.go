package keywords

// ImportantKeywords are business terms that make two ideas look alike beyond plain word overlap.
var ImportantKeywords = []string{
	"payment", "mobile payment", "fraud", "fraud detection", "marketplace",
	"mobile app", "mobile platform", "subscription", "saas", "fintech", "lending",
	"credit", "insurance", "banking", "crypto", "blockchain",
	"ai", "artificial intelligence", "machine learning", "computer vision",
	"natural language processing", "chatbot", "analytics", "automation", "api",
	"developer tool", "inventory", "supply chain", "logistics", "delivery",
	"e-commerce", "retail", "manufacturing", "hardware", "electronics", "robotics",
	"drone", "sensor", "iot", "healthcare", "telemedicine", "diagnostics",
	"education", "tutoring", "recruiting", "hiring", "real estate", "rental",
	"travel", "booking", "restaurant", "agriculture", "crop", "plant health",
	"energy", "solar", "climate", "cybersecurity", "monitoring", "social network",
	"dating", "gaming", "streaming", "advertising", "customer support", "crm",
	"legal", "compliance", "accounting", "payroll", "marketing",
}

// IndustryKeywords name verticals; sharing one is a strong hint two ideas compete.
var IndustryKeywords = []string{
	"customer service", "customer support", "help desk", "call center", "contact center",
	"fintech", "banking", "payment", "credit card", "lending", "insurance",
	"travel", "booking", "hotel", "flight", "tourism", "vacation rental",
	"e-commerce", "online store", "online shopping", "retail", "marketplace",
	"healthcare", "medical", "telemedicine", "education", "edtech",
	"agriculture", "farming", "real estate", "proptech", "logistics", "shipping",
	"food delivery", "restaurant", "gaming", "media", "entertainment", "energy",
	"automotive", "manufacturing", "construction", "legal", "human resources",
	"recruiting", "cybersecurity", "social media",
}

func DefaultImportant() *Table {
	return NewTable("important", ImportantKeywords)
}

func DefaultIndustry() *Table {
	return NewTable("industry", IndustryKeywords)
}
