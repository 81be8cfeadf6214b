package resolver

var unitCardinals = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

var teenCardinals = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensCardinals = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var unitOrdinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9,
}

var teenOrdinals = map[string]int{
	"tenth": 10, "eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14,
	"fifteenth": 15, "sixteenth": 16, "seventeenth": 17, "eighteenth": 18, "nineteenth": 19,
}

var tensOrdinals = map[string]int{
	"twentieth": 20, "thirtieth": 30, "fortieth": 40, "fiftieth": 50,
	"sixtieth": 60, "seventieth": 70, "eightieth": 80, "ninetieth": 90,
}

var banglaOrdinals = map[string]int{
	"প্রথম": 1, "দ্বিতীয়": 2, "তৃতীয়": 3, "চতুর্থ": 4, "পঞ্চম": 5,
	"ষষ্ঠ": 6, "সপ্তম": 7, "অষ্টম": 8, "নবম": 9, "দশম": 10,
}

var banglaCardinals = map[string]int{
	"এক": 1, "দুই": 2, "তিন": 3, "চার": 4, "পাঁচ": 5,
	"ছয়": 6, "সাত": 7, "আট": 8, "নয়": 9, "দশ": 10,
}

// Words meaning "the final item of the listing".
var lastWords = map[string]bool{
	"last": true, "latest": true, "final": true, "bottom": true,
	"শেষ": true, "সর্বশেষ": true, "শেষের": true,
}

// Tokens after which a bare "one" is read as a position.
var oneQualifiers = map[string]bool{
	"number": true, "no": true, "article": true, "news": true,
	"headline": true, "item": true, "story": true, "#": true,
}

// Suffixes accepted after a digit run: "5th", "2nd", "৫ম", "২য়", "১০তম".
var digitOrdinalSuffixes = map[string]bool{
	"st": true, "nd": true, "rd": true, "th": true,
	"ম": true, "য়": true, "র্থ": true, "ষ্ঠ": true, "তম": true,
}
