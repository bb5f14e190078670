package card

// RuneClass is the only class that picks runes
const RuneClass = "Death Knight"

// ClassSelection is the class context a deck is built for.
// Runes holds exactly three of B, F and U for RuneClass and is empty otherwise.
type ClassSelection struct {
	ClassName string
	Runes     string
}
