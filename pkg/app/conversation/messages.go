package conversation

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/BarButler/pkg/domain/whiskey"
)

const (
	DoneCommand = "Done"

	helpText = "You can either...\n" +
		"1) ask for a whiskey recommendation based on tasting notes (type tasting notes), or... \n" +
		"2) based on a movie (type movie).\n\n" +
		"Either way you're going to get a recommendation for a whiskey"
	greetingText = "Welcome, my name is BarButler. I give out whiskey recommendations\n\n" + helpText

	notUnderstoodText = "Sorry didn't understand that\n\n" + helpText
	askMovieText      = "Perfect, what movie are you going to watch today?"
	askTasteText      = "Wonderful, what kind of whiskey are you looking for in terms of taste?"

	noTitleText         = "I didn't find any movie with that title. Could you say that again?"
	movieNotFoundFormat = "Sorry, couldn't find a movie with the title %s. What were you going to watch again?"
	unknownMoodFormat   = "I couldn't make out the mood of %s. What else were you going to watch?"
	greatMovieFormat    = "%s is a great movie. Let me find a whiskey that matches the mood of this movie!"
	senseFormat         = "I sense %s from this movie. I'll try to find you a whiskey that is %s"
	noMovieWhiskeyFmt   = "Sorry, there were no whiskies that go well with %s"

	noNotesText      = "I didn't get any flavor names from your text. Could you say that again?"
	lookingForFormat = "Perfect. Looking for whiskies that are %s. Give me a second"
	noTasteWhiskey   = "Sorry, there were no whiskies with the flavors you were looking for"

	anotherText      = "Would you like another recommendation?"
	anotherMovieText = "Perfect, enter in another movie you were going to watch."
	anotherTasteText = "Perfect, enter in another description of a whiskey you want to drink."
	goodbyeText      = "Alright, I'll see you later!"
	doneText         = "Cheers! Come back whenever you need another pour."

	unavailableText = "Sorry, my palate is out of order right now. Could you try that again in a moment?"
)

func movieRecommendation(w *whiskey.Whiskey, title string) string {
	return fmt.Sprintf("Alright I got it! I would recommend the %s to sip while watching %s\n\n%s\nThe %s goes for about %s on the market.",
		w.Title, title, w.Description, w.Title, price(w.Price))
}

func tasteRecommendation(w *whiskey.Whiskey) string {
	return fmt.Sprintf("Alright I got it! I would recommend the %s.\n\n%s\nThe %s goes for about %s on the market.",
		w.Title, w.Description, w.Title, price(w.Price))
}

func price(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "an undisclosed price"
	}
	if strings.HasPrefix(p, "$") {
		return p
	}
	return "$" + p
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return "to your taste"
	}
	return strings.Join(tags, ", ")
}
