package extraction

import "strings"

const movieSystemPrompt = "You extract the title of the movie the user mentions. " +
	"Answer with the title only, on one line. Answer with an empty line if no movie is mentioned."

const tasteSystemPrompt = "You extract whiskey tasting notes from the user's message. " +
	"Answer with a comma separated list on one line. Answer with an empty line if there are none."

const emotionSystemPrompt = "You classify the dominant emotion of a movie synopsis. " +
	"Answer with exactly one word from: sadness, joy, love, anger, fear, surprise."

type example struct {
	user   string
	answer string
}

var movieExamples = []example{
	{"What's a good whiskey to pair with The Conjuring series?", "The Conjuring"},
	{"What should I drink when I watch Indiana Jones?", "Indiana Jones"},
	{"I'd like to watch the Hellraiser tonight. What should I get from the bar?", "Hellraiser"},
	{"What would be an interesting whiskey to pair with Star Wars?", "Star Wars"},
	{"Can you find me a whiskey to pair with Top Gun: Maverick?", "Top Gun: Maverick"},
	{"What can I drink with Sleepless in Seattle?", "Sleepless in Seattle"},
	{"What whiskey goes well with Knocked Up?", "Knocked Up"},
	{"I'm trying to relax for the night with Catch Me if You Can", "Catch Me if You Can"},
	{"what should I drink with Schindler's List?", "Schindler's List"},
}

var tasteExamples = []example{
	{"Hey I'm looking for a whiskey that's airy, light, and very fruity, what would you recommend?", "airy, light, fruity"},
	{"I'm interested in a dense whiskey that is well balanced and citrusy", "dense, balanced, citrusy"},
	{"You got any whiskey with heavy coffee and cigar flavors?", "coffee, cigar"},
	{"what sweet whiskey would you recommend?", "sweet"},
	{"Can you find me a malty whiskey with floral notes and smells a little bit like chocolate?", "malty, floral, chocolate"},
	{"what is a whiskey that's mellow and has butterscotch flavors?", "mellow, butterscotch"},
	{"Any idea what whiskey is smooth and apple flavored?", "smooth, apple"},
	{"I'm trying to relax for the night, any suggestions for bourbon that's smokey, bitter, but also amber?", "smokey, bitter, amber"},
}

// fewShot renders the examples followed by the user's text and an open
// answer label, so the model completes the last line.
func fewShot(examples []example, label, text string) string {
	var b strings.Builder
	for _, ex := range examples {
		b.WriteString("user: ")
		b.WriteString(ex.user)
		b.WriteString("\n")
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(ex.answer)
		b.WriteString("\n\n")
	}
	b.WriteString("user: ")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n")
	b.WriteString(label)
	b.WriteString(":")
	return b.String()
}
