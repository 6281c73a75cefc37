package lexicon

import "github.com/ent0n29/memoir/internal/lang"

// Default returns a freshly compiled English/Urdu lexicon. Each call builds new
// tables so callers may overlay them without affecting other instances.
func Default() *Lexicon {
	lex, err := New(lang.English, map[lang.Code]*Table{
		lang.English: englishTable(),
		lang.Urdu:    urduTable(),
	})
	if err != nil {
		// Built-in tables are static; failing here is a programming error.
		panic(err)
	}
	return lex
}

func englishTable() *Table {
	return &Table{
		Topics: []TopicRule{
			{
				Topic:    Childhood,
				Keywords: []string{"childhood", "grew up", "growing up", "as a child", "as a kid", "when i was young", "when i was little", "little girl", "little boy"},
				Question: "What was your childhood like? Where did you grow up?",
			},
			{
				Topic:    Family,
				Keywords: []string{"family", "mother", "father", "mom", "dad", "parents", "brother", "sister", "sibling", "grandmother", "grandfather", "grandparents"},
				Question: "Tell me more about your family! What were your parents like?",
			},
			{
				Topic:    Marriage,
				Keywords: []string{"married", "marriage", "wedding", "wife", "husband", "spouse"},
				Question: "How did you meet your spouse? What was your wedding day like?",
			},
			{
				Topic:    Work,
				Keywords: []string{"work", "job", "career", "office", "business", "profession", "boss", "retired"},
				Question: "What kind of work did you do? What did you enjoy most about it?",
			},
			{
				Topic:    Travel,
				Keywords: []string{"travel", "trip", "journey", "abroad", "visited", "vacation", "holiday", "flight"},
				Question: "Where have you traveled? Which journey stayed with you the most?",
			},
			{
				Topic:    Education,
				Keywords: []string{"school", "college", "university", "teacher", "studied", "study", "degree", "graduated", "exam"},
				Question: "What was school like for you? Is there a teacher you still remember?",
			},
			{
				Topic:    Friendship,
				Keywords: []string{"friend", "friendship", "buddy", "companion"},
				Question: "Who were your closest friends? What did you love doing together?",
			},
		},
		Greeting: Greeting{
			Words:      []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings", "salaam", "salam", "assalamualaikum", "assalam o alaikum"},
			NamedReply: "Nice to meet you, %s! I'd love to hear your story. Where did you grow up?",
			Reply:      "Hello! It's nice to meet you. What would you like to share about your life today?",
			NamePatterns: []string{
				`(?i)\bmy name is\s+([\p{L}][\p{L}'’-]*)`,
				`(?i)\bcall me\s+([\p{L}][\p{L}'’-]*)`,
				`(?:^|[\s,.!?])(?i:i['’]?m|i am)\s+(\p{Lu}[\p{L}'’-]*)`,
			},
			NotNames: []string{
				"a", "an", "the", "not", "so", "very", "just", "really", "from", "here", "there", "going",
				"fine", "good", "great", "okay", "ok", "sorry", "glad", "happy", "sad", "tired", "in", "at",
				"still", "also", "married", "retired", "old", "back", "home", "ready", "sure",
			},
		},
		GenericFollowUps: []string{
			"That sounds interesting! Tell me more about that.",
			"I'd love to hear more. What happened next?",
			"How did that make you feel at the time?",
			"What a story! Can you tell me a little more about it?",
			"That's fascinating. What do you remember most about it?",
		},
		Acknowledgements: []string{
			"i'm listening", "i am listening", "yes", "yeah", "yep", "no", "okay", "ok", "i see",
			"sure", "hmm", "mm hmm", "uh huh", "got it", "alright", "right", "go on", "cool",
			"nice", "thanks", "thank you",
		},
		LifeEvents: []string{"born", "graduated", "married", "moved", "started", "retired", "traveled", "travelled", "met"},
		Relationships: []Term{
			{Label: "mother", Keywords: []string{"mother", "mom", "mum", "ammi"}},
			{Label: "father", Keywords: []string{"father", "dad", "abbu"}},
			{Label: "spouse", Keywords: []string{"wife", "husband", "spouse"}},
			{Label: "sibling", Keywords: []string{"brother", "sister", "sibling", "siblings"}},
			{Label: "child", Keywords: []string{"son", "daughter", "children", "kids"}},
			{Label: "grandparent", Keywords: []string{"grandmother", "grandfather", "grandma", "grandpa", "grandparents"}},
			{Label: "friend", Keywords: []string{"friend", "friends", "best friend"}},
			{Label: "teacher", Keywords: []string{"teacher", "mentor"}},
			{Label: "relative", Keywords: []string{"uncle", "aunt", "cousin", "cousins"}},
		},
		Personality: []Term{
			{Label: "kind", Keywords: []string{"kind", "kindness", "gentle"}},
			{Label: "hardworking", Keywords: []string{"hard work", "hardworking", "worked hard"}},
			{Label: "patient", Keywords: []string{"patient", "patience"}},
			{Label: "curious", Keywords: []string{"curious", "curiosity", "wondered"}},
			{Label: "adventurous", Keywords: []string{"adventure", "adventurous", "explore", "explored"}},
			{Label: "creative", Keywords: []string{"creative", "painting", "music", "poetry", "wrote"}},
			{Label: "generous", Keywords: []string{"generous", "helped", "helping", "shared"}},
			{Label: "determined", Keywords: []string{"determined", "never gave up", "persevered"}},
			{Label: "cheerful", Keywords: []string{"cheerful", "laugh", "laughed", "joy"}},
			{Label: "devout", Keywords: []string{"pray", "prayed", "prayer", "mosque", "church"}},
		},
		Values: []Term{
			{Label: "family", Keywords: []string{"family"}},
			{Label: "faith", Keywords: []string{"faith", "god", "religion", "allah"}},
			{Label: "education", Keywords: []string{"education", "learning", "knowledge"}},
			{Label: "honesty", Keywords: []string{"honest", "honesty", "truth"}},
			{Label: "hard work", Keywords: []string{"hard work", "effort", "discipline"}},
			{Label: "community", Keywords: []string{"community", "neighbors", "neighbours", "village"}},
			{Label: "respect", Keywords: []string{"respect", "elders"}},
			{Label: "tradition", Keywords: []string{"tradition", "traditions", "culture", "customs"}},
			{Label: "kindness", Keywords: []string{"kindness", "charity", "helping others"}},
		},
	}
}

func urduTable() *Table {
	return &Table{
		Topics: []TopicRule{
			{
				Topic:    Childhood,
				Keywords: []string{"بچپن", "جب میں چھوٹا", "جب میں چھوٹی", "پلا بڑھا", "پلی بڑھی"},
				Question: "آپ کا بچپن کیسا تھا؟ آپ کہاں پلے بڑھے؟",
			},
			{
				Topic:    Family,
				Keywords: []string{"خاندان", "گھر والے", "امی", "ابو", "والد", "والدہ", "ماں", "بھائی", "بہن", "دادا", "دادی", "نانا", "نانی"},
				Question: "اپنے خاندان کے بارے میں مزید بتائیں! آپ کے والدین کیسے تھے؟",
			},
			{
				Topic:    Marriage,
				Keywords: []string{"شادی", "بیوی", "شوہر", "نکاح", "دلہن"},
				Question: "آپ اپنے شریکِ حیات سے کیسے ملے؟ آپ کی شادی کا دن کیسا تھا؟",
			},
			{
				Topic:    Work,
				Keywords: []string{"کام", "نوکری", "ملازمت", "کاروبار", "دفتر", "ریٹائر"},
				Question: "آپ کس قسم کا کام کرتے تھے؟ آپ کو اس میں سب سے زیادہ کیا پسند تھا؟",
			},
			{
				Topic:    Travel,
				Keywords: []string{"سفر", "سیاحت", "بیرون ملک", "چھٹیاں"},
				Question: "آپ نے کہاں کہاں سفر کیا؟ کون سا سفر آپ کو سب سے زیادہ یاد ہے؟",
			},
			{
				Topic:    Education,
				Keywords: []string{"اسکول", "سکول", "کالج", "یونیورسٹی", "استاد", "تعلیم", "پڑھائی", "ڈگری"},
				Question: "آپ کی تعلیم کیسی رہی؟ کیا کوئی استاد آپ کو آج بھی یاد ہے؟",
			},
			{
				Topic:    Friendship,
				Keywords: []string{"دوست", "دوستی", "سہیلی", "یار"},
				Question: "آپ کے سب سے قریبی دوست کون تھے؟ آپ مل کر کیا کرتے تھے؟",
			},
		},
		Greeting: Greeting{
			Words:      []string{"السلام علیکم", "السلام", "سلام", "ہیلو", "آداب"},
			NamedReply: "آپ سے مل کر خوشی ہوئی، %s! مجھے آپ کی کہانی سن کر بہت خوشی ہوگی۔ آپ کہاں پلے بڑھے؟",
			Reply:      "السلام علیکم! آپ سے مل کر خوشی ہوئی۔ آج آپ اپنی زندگی کے بارے میں کیا بتانا چاہیں گے؟",
			NamePatterns: []string{
				`میرا نام ہے\s+([\p{L}][\p{L}\p{M}]*)`,
				`میرا نام\s+([\p{L}][\p{L}\p{M}]*)`,
				`مجھے\s+([\p{L}][\p{L}\p{M}]*)\s+کہتے`,
			},
			NotNames: []string{"ہے", "کیا", "تو", "بھی"},
		},
		GenericFollowUps: []string{
			"یہ دلچسپ لگتا ہے! اس کے بارے میں مزید بتائیں۔",
			"میں مزید سننا چاہوں گا۔ پھر کیا ہوا؟",
			"اس وقت آپ کو کیسا محسوس ہوا؟",
			"کیا خوب کہانی ہے! کیا آپ مزید تفصیل بتا سکتے ہیں؟",
		},
		Acknowledgements: []string{
			"میں سن رہا ہوں", "میں سن رہی ہوں", "جی", "جی ہاں", "ہاں", "نہیں", "ٹھیک ہے", "اچھا",
			"اوکے", "میں سمجھ گیا", "میں سمجھ گئی", "شکریہ",
		},
		LifeEvents: []string{"پیدا", "شادی", "ریٹائر", "منتقل", "سفر", "ملاقات", "فارغ التحصیل", "شروع"},
		Relationships: []Term{
			{Label: "mother", Keywords: []string{"ماں", "امی", "والدہ"}},
			{Label: "father", Keywords: []string{"ابو", "ابا", "والد"}},
			{Label: "spouse", Keywords: []string{"بیوی", "شوہر"}},
			{Label: "sibling", Keywords: []string{"بھائی", "بہن"}},
			{Label: "child", Keywords: []string{"بیٹا", "بیٹی", "بچے"}},
			{Label: "grandparent", Keywords: []string{"دادا", "دادی", "نانا", "نانی"}},
			{Label: "friend", Keywords: []string{"دوست", "سہیلی"}},
			{Label: "teacher", Keywords: []string{"استاد", "استانی"}},
			{Label: "relative", Keywords: []string{"چچا", "ماموں", "خالہ", "پھوپھی", "کزن"}},
		},
		Personality: []Term{
			{Label: "kind", Keywords: []string{"مہربان", "رحم دل"}},
			{Label: "hardworking", Keywords: []string{"محنتی", "محنت"}},
			{Label: "patient", Keywords: []string{"صبر"}},
			{Label: "curious", Keywords: []string{"تجسس"}},
			{Label: "cheerful", Keywords: []string{"خوش", "ہنسی"}},
			{Label: "generous", Keywords: []string{"سخی", "مدد"}},
			{Label: "devout", Keywords: []string{"نماز", "دعا"}},
		},
		Values: []Term{
			{Label: "family", Keywords: []string{"خاندان"}},
			{Label: "faith", Keywords: []string{"ایمان", "اللہ", "مذہب"}},
			{Label: "education", Keywords: []string{"تعلیم"}},
			{Label: "honesty", Keywords: []string{"ایمانداری", "سچ"}},
			{Label: "hard work", Keywords: []string{"محنت"}},
			{Label: "community", Keywords: []string{"محلہ", "برادری", "گاؤں"}},
			{Label: "respect", Keywords: []string{"عزت", "احترام"}},
			{Label: "tradition", Keywords: []string{"روایت", "ثقافت"}},
		},
	}
}
