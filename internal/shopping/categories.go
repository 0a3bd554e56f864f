package shopping

import "strings"

// CategoryOverig is the fallback bucket for unrecognized ingredients.
const CategoryOverig = "Overig"

// categoryDef couples a category name to the keywords that route an
// ingredient into it.
type categoryDef struct {
	name     string
	keywords []string
}

// categories is the fixed grocery-aisle taxonomy. The order matters: the
// first category with a matching keyword wins. Names and keyword lists are
// part of the contract toward the UI and must stay stable.
var categories = []categoryDef{
	{"Groente & Fruit", []string{
		"ui", "tomaat", "tomaten", "paprika", "courgette", "aubergine",
		"komkommer", "sla", "spinazie", "broccoli", "bloemkool", "wortel",
		"prei", "champignon", "knoflook", "aardappel", "citroen", "limoen",
		"appel", "banaan", "avocado", "venkel", "pompoen", "rucola",
		"andijvie", "boontjes", "sperzieboon", "radijs", "selderij",
	}},
	{"Vlees & Vis", []string{
		"kip", "rund", "varken", "gehakt", "spek", "worst", "ham",
		"biefstuk", "schnitzel", "chorizo", "zalm", "tonijn", "kabeljauw",
		"garnalen", "vis", "tofu", "tempeh",
	}},
	{"Zuivel & Eieren", []string{
		"melk", "boter", "kaas", "yoghurt", "room", "eieren", "ei",
		"mozzarella", "feta", "parmezaan", "kwark", "crème fraîche",
		"creme fraiche",
	}},
	{"Brood & Bakkerij", []string{
		"brood", "stokbrood", "pistolet", "wrap", "tortilla", "croissant",
		"beschuit", "crackers",
	}},
	{"Pasta, Rijst & Granen", []string{
		"pasta", "spaghetti", "macaroni", "penne", "lasagne", "rijst",
		"noedels", "mie", "couscous", "quinoa", "bulgur", "bloem",
		"havermout",
	}},
	{"Kruiden & Specerijen", []string{
		"zout", "peper", "komijn", "kerrie", "kaneel", "oregano",
		"basilicum", "tijm", "rozemarijn", "peterselie", "koriander",
		"kruiden", "specerijen", "kurkuma", "gember", "laurier",
		"nootmuskaat",
	}},
	{"Conserven & Potten", []string{
		"blik", "pot", "tomatenpuree", "passata", "kokosmelk", "bonen",
		"kikkererwten", "linzen", "maïs", "mais", "olijven",
	}},
	{"Diepvries", []string{
		"diepvries", "bevroren", "doperwten", "ijs",
	}},
	{CategoryOverig, nil},
}

// CategoryNames lists the taxonomy in its fixed order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.name
	}
	return names
}

// Categorize assigns an ingredient to exactly one category by scanning its
// original (not normalized) name for keyword substrings, case-insensitively.
func Categorize(originalName string) string {
	name := strings.ToLower(originalName)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(name, kw) {
				return c.name
			}
		}
	}
	return CategoryOverig
}
