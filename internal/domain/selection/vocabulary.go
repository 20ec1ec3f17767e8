package selection

// Vocabulary — фиксированный список интересов, из которых можно выбирать.
var Vocabulary = []string{
	"Hiking",
	"Music",
	"Coffee",
	"Travel",
	"Gaming",
	"Photography",
	"Cooking",
	"Fitness",
	"Yoga",
	"Reading",
	"Movies",
	"Art",
	"Dancing",
	"Tech",
	"Startups",
	"Board Games",
	"Running",
	"Cycling",
	"Climbing",
	"Surfing",
	"Food",
	"Wine",
	"Live Shows",
	"Volunteering",
	"Languages",
	"Fashion",
	"Pets",
	"Meditation",
	"Writing",
	"Podcasts",
}

var vocabularyIndex = func() map[string]struct{} {
	idx := make(map[string]struct{}, len(Vocabulary))
	for _, tag := range Vocabulary {
		idx[tag] = struct{}{}
	}
	return idx
}()

// IsKnownInterest проверяет, что тег есть в словаре.
func IsKnownInterest(tag string) bool {
	_, ok := vocabularyIndex[tag]
	return ok
}
