package i18n

// Languages the game ships with. The first is the default.
var Languages = []string{"en", "es", "pt"}

var dictionaries = map[string]map[string]string{
	"en": {
		"round":                  "ROUND",
		"round.left":             "LEFT",
		"result.title":           "RESULT",
		"share.label":            "SHARE:",
		"share.whatsapp":         "WhatsApp",
		"share.instagram":        "Instagram",
		"share.facebook":         "Facebook",
		"footer.replay":          "Replay ?:",
		"start.cta":              "TAP / CLICK TO START",
		"start.playing":          "PLAYING",
		"time.up":                "TIME",
		"share.message":          "I got {score}/{max}. How many can you do? {url}",
		"share.instagram.copied": "Copied. Open Instagram and paste it.",
		"share.copy.prompt":      "Copy this:",
	},
	"es": {
		"round":                  "RONDA",
		"round.left":             "RESTAN",
		"result.title":           "Resultado",
		"share.label":            "Compartí:",
		"share.whatsapp":         "WhatsApp",
		"share.instagram":        "Instagram",
		"share.facebook":         "Facebook",
		"footer.replay":          "Repetir ?:",
		"start.cta":              "TOCÁ / CLICK PARA EMPEZAR",
		"start.playing":          "JUGANDO",
		"time.up":                "TIEMPO",
		"share.message":          "Acerté {score}/{max}, cuantas haces vos? {url}",
		"share.instagram.copied": "Copiado. Abrí Instagram y pegalo en tu story/post.",
		"share.copy.prompt":      "Copiá esto:",
	},
	"pt": {
		"round":                  "RODADA",
		"round.left":             "FALTAM",
		"result.title":           "Resultado",
		"share.label":            "Compartilhe:",
		"share.whatsapp":         "WhatsApp",
		"share.instagram":        "Instagram",
		"share.facebook":         "Facebook",
		"footer.replay":          "Repetir ?:",
		"start.cta":              "TOQUE / CLIQUE PARA COMEÇAR",
		"start.playing":          "JOGANDO",
		"time.up":                "TEMPO",
		"share.message":          "Acertei {score}/{max}. Quantas você consegue? {url}",
		"share.instagram.copied": "Copiado. Abra o Instagram e cole no story/post.",
		"share.copy.prompt":      "Copie isto:",
	},
}
