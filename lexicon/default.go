package lexicon

var defaultStopwords = []string{
	"the", "and", "or", "in", "on", "at", "to", "for", "of", "with", "by",
	"a", "an", "is", "are", "was", "were",
	"best", "top", "good", "great", "find", "search",
}

var defaultCategories = []Category{
	{Name: "tech", Synonyms: []string{
		"technology", "gadget", "review", "mobile", "phone", "laptop", "computer",
		"android", "iphone", "software", "ai", "programming", "unboxing", "specs", "smartphone",
	}},
	{Name: "beauty", Synonyms: []string{
		"makeup", "cosmetic", "skincare", "fashion", "style", "salon", "hair",
		"nails", "modeling", "outfit", "hijab", "modest fashion", "bridal", "mehndi",
	}},
	{Name: "food", Synonyms: []string{
		"cooking", "recipe", "chef", "restaurant", "cuisine", "kitchen", "desi",
		"pakistani", "karahi", "biryani", "street food", "halal", "ramadan", "iftar",
	}},
	{Name: "gaming", Synonyms: []string{
		"game", "gamer", "esports", "streaming", "pubg", "minecraft", "fifa",
		"cod", "valorant", "mobile gaming", "free fire", "clash", "fortnite",
	}},
	{Name: "comedy", Synonyms: []string{
		"funny", "humor", "entertainment", "joke", "sketch", "parody", "memes",
		"viral", "comedy skits", "standup", "roast",
	}},
	{Name: "travel", Synonyms: []string{
		"trip", "journey", "tourism", "adventure", "explore", "wanderlust",
		"vacation", "vlog", "destination", "pakistan tourism", "northern areas",
	}},
	{Name: "fitness", Synonyms: []string{
		"gym", "workout", "health", "exercise", "bodybuilding", "yoga", "training",
		"sports", "wellness", "diet", "nutrition",
	}},
	{Name: "music", Synonyms: []string{
		"singer", "song", "musician", "artist", "band", "cover", "vocals",
		"instrument", "melody", "qawwali", "sufi", "bollywood",
	}},
	{Name: "lifestyle", Synonyms: []string{
		"vlog", "daily", "routine", "life", "personal", "family", "home", "decor",
		"motivation", "inspiration",
	}},
	{Name: "business", Synonyms: []string{
		"entrepreneur", "startup", "finance", "investment", "money", "corporate",
		"marketing", "success", "motivational",
	}},
	{Name: "education", Synonyms: []string{
		"teaching", "learning", "study", "tutorial", "academic", "knowledge",
		"skills", "training", "coaching",
	}},
	{Name: "news", Synonyms: []string{
		"current affairs", "politics", "journalism", "reporting", "updates",
		"breaking news", "analysis",
	}},
}

// Regional terms that signal an audience match for the catalog's market.
var defaultContextTerms = []string{
	"pakistan", "pakistani", "karachi", "lahore", "islamabad",
	"urdu", "punjabi", "sindhi", "desi",
}
