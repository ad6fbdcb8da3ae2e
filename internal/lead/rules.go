package lead

// Pattern and list data live here as tunable defaults; deployments override
// the stoplist and disposable-domain list from config without touching the
// extraction flow.

var defaultStoplist = []string{
	"hi", "hello", "hey", "thanks", "thank", "you", "yes", "no", "ok",
	"okay", "sure", "please", "sorry", "great", "cool", "bye", "goodbye",
	"good", "morning", "afternoon", "evening", "there",
	"i", "am", "im", "is", "are", "was", "were", "be", "been",
	"the", "a", "an", "my", "me", "we", "us", "our", "your", "it",
	"this", "that", "these", "those", "and", "or", "not", "but",
	"what", "who", "when", "where", "why", "how", "which",
	"can", "could", "would", "should", "will", "shall", "may", "might",
	"do", "does", "did", "have", "has", "had",
	"need", "want", "know", "help", "info", "information", "question",
	"asking", "looking", "interested", "in", "to", "for", "of", "about",
	"with", "from", "just", "more", "some", "any",
	"services", "service", "product", "products", "price", "prices",
	"pricing", "cost", "quote", "buy", "purchase", "order", "demo",
	"sales", "support", "team", "company", "business", "brand",
	"email", "phone", "contact", "name", "call", "reach",
	"now", "today", "tomorrow", "urgent", "asap",
}

var defaultDisposableDomains = []string{
	"mailinator.com",
	"guerrillamail.com",
	"sharklasers.com",
	"10minutemail.com",
	"tempmail.com",
	"temp-mail.org",
	"throwaway.email",
	"yopmail.com",
	"trashmail.com",
	"getnada.com",
	"maildrop.cc",
	"dispostable.com",
	"fakeinbox.com",
	"mintemail.com",
	"spam4.me",
	"mytemp.email",
	"tempinbox.com",
	"mohmal.com",
}
