package tts

// voiceIDs maps the named voice presets to ElevenLabs voice IDs.
var voiceIDs = map[string]string{
	"Rachel":    "21m00Tcm4TlvDq8ikWAM",
	"Drew":      "29vD33N1CtxCmqQRPOHJ",
	"Clyde":     "2EiwWnXFnvU5JabPnv8n",
	"Paul":      "5Q0t7uMcjvnagumLfvZi",
	"Domi":      "AZnzlk1XvdvUeBnXmlld",
	"Dave":      "CYw3kZ02Hs0563khs1Fj",
	"Fin":       "D38z5RcWu1voky8WS1ja",
	"Sarah":     "EXAVITQu4vr4xnSDxMaL",
	"Antoni":    "ErXwobaYiN019PkySvjV",
	"Thomas":    "GBv7mTt0atIp3Br8iCZE",
	"Charlie":   "IKne3meq5aSn9XLyUdCD",
	"George":    "JBFqnCBsd6RMkjVDRZzb",
	"Emily":     "LcfcDJNUP1GQjkzn1xUU",
	"Elli":      "MF3mGyEYCl7XYWbV9V6O",
	"Callum":    "N2lVS1w4EtoT3dr4eOWO",
	"Patrick":   "ODq5zmih8GrVes37Dizd",
	"Harry":     "SOYHLrjzK2X1ezoPC6cr",
	"Liam":      "TX3LPaxmHKxFdv7VOQHJ",
	"Dorothy":   "ThT5KcBeYPX3keUQqHPh",
	"Josh":      "TxGEqnHWrfWFTfGW9XjX",
	"Arnold":    "VR6AewLTigWG4xSOukaG",
	"Charlotte": "XB0fDUnXU5powFXDhCwa",
	"Alice":     "Xb7hH8MSUJpSbSDYk0k2",
	"Matilda":   "XrExE9yKIg1WjnnlVkGX",
}

// voiceOrder is the presentation order for the voice picker.
var voiceOrder = []string{
	"Rachel", "Drew", "Clyde", "Paul", "Domi", "Dave",
	"Fin", "Sarah", "Antoni", "Thomas", "Charlie", "George",
	"Emily", "Elli", "Callum", "Patrick", "Harry", "Liam",
	"Dorothy", "Josh", "Arnold", "Charlotte", "Alice", "Matilda",
}

// Voices returns the available voice names in presentation order.
func Voices() []string {
	out := make([]string, len(voiceOrder))
	copy(out, voiceOrder)
	return out
}

// IsKnownVoice reports whether name is one of the fixed voice presets.
func IsKnownVoice(name string) bool {
	_, ok := voiceIDs[name]
	return ok
}
