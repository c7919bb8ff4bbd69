package symptom

// dictionaries holds the medical terms recognised per language, grouped by
// kind. Terms are matched case-insensitively as whole terms.
var dictionaries = map[string]Dictionary{
	"en-US": {
		Symptoms: []string{
			"cough", "fever", "headache", "nausea", "vomiting", "diarrhea", "constipation",
			"fatigue", "weakness", "dizziness", "chest pain", "shortness of breath",
			"abdominal pain", "back pain", "joint pain", "muscle pain", "sore throat",
			"runny nose", "congestion", "sneezing", "rash", "itching", "swelling", "bloating",
			"heartburn", "indigestion", "loss of appetite", "weight loss", "weight gain",
			"insomnia", "anxiety", "depression", "stress", "panic", "palpitations",
			"high blood pressure", "low blood pressure", "diabetes", "asthma", "allergies",
			"migraine", "vertigo", "tinnitus", "blurred vision", "dry eyes", "ear pain",
			"hearing loss", "dental pain", "gum bleeding", "jaw pain", "neck pain",
			"shoulder pain", "arm pain", "leg pain", "knee pain", "ankle pain", "foot pain",
			"numbness", "tingling", "burning sensation", "cold symptoms", "flu symptoms",
			"stomach ache", "cramps", "spasms", "seizures", "fainting", "blackouts", "confusion",
			"memory loss", "difficulty concentrating", "mood swings", "irritability",
			"restlessness", "tremors", "shaking", "stiffness", "difficulty walking",
			"balance problems", "coordination problems", "speech difficulties",
			"swallowing difficulties", "hoarseness", "voice changes", "coughing up blood",
			"blood in urine", "blood in stool", "unusual bleeding", "bruising", "pale skin",
			"yellowing skin", "skin discoloration", "moles", "lumps", "bumps", "lesions",
			"wounds", "cuts", "burns", "fractures", "sprains", "strains", "dislocations",
			"infection", "inflammation", "discharge", "bleeding", "pain", "ache", "hurt", "sore",
			"tender", "sensitive", "swollen", "red", "hot", "warm", "cold", "numb", "stiff",
			"tight", "loose", "weak", "strong", "sharp", "dull", "throbbing", "stabbing",
			"burning", "shooting", "radiating", "constant", "intermittent", "chronic", "acute",
			"sudden", "gradual", "mild", "moderate", "severe", "extreme",
		},
		BodyParts: []string{
			"head", "brain", "skull", "scalp", "face", "forehead", "temple", "eye", "eyebrow",
			"eyelid", "nose", "nostril", "mouth", "lip", "tongue", "tooth", "teeth", "gum", "jaw",
			"chin", "cheek", "ear", "neck", "throat", "thyroid", "chest", "breast", "lung",
			"heart", "rib", "back", "spine", "shoulder", "arm", "elbow", "wrist", "hand",
			"finger", "thumb", "abdomen", "stomach", "liver", "kidney", "bladder", "bowel",
			"intestine", "colon", "rectum", "pelvis", "hip", "buttock", "groin", "thigh", "leg",
			"knee", "calf", "shin", "ankle", "foot", "toe", "heel", "skin", "muscle", "bone",
			"joint", "tendon", "ligament", "nerve", "blood vessel", "artery", "vein",
		},
		Conditions: []string{
			"hypertension", "hypotension", "tachycardia", "bradycardia", "arrhythmia", "angina",
			"myocardial infarction", "heart attack", "stroke", "anemia", "leukemia", "cancer",
			"tumor", "cyst", "polyp", "ulcer", "gastritis", "colitis", "appendicitis",
			"pneumonia", "bronchitis", "sinusitis", "rhinitis", "pharyngitis", "laryngitis",
			"tonsillitis", "otitis", "conjunctivitis", "dermatitis", "eczema", "psoriasis",
			"acne", "rosacea", "cellulitis", "abscess", "gangrene", "sepsis", "meningitis",
			"encephalitis", "epilepsy", "parkinson", "alzheimer", "dementia", "schizophrenia",
			"bipolar", "arthritis", "osteoporosis", "fibromyalgia", "lupus", "multiple sclerosis",
			"crohn", "ibs", "gerd", "hypothyroidism", "hyperthyroidism", "kidney stones",
			"gallstones", "hernia", "prolapse",
		},
		Medications: []string{
			"aspirin", "ibuprofen", "acetaminophen", "paracetamol", "antibiotic", "antacid",
			"insulin", "steroid", "antihistamine", "decongestant", "cough syrup", "pain reliever",
			"anti-inflammatory", "blood thinner", "beta blocker", "diuretic", "antidepressant",
			"anxiolytic", "sedative", "muscle relaxant", "vaccine", "immunization", "supplement",
			"vitamin",
		},
	},
	"hi-IN": {
		Symptoms: []string{
			"खांसी", "बुखार", "सिरदर्द", "जी मिचलाना", "उल्टी", "दस्त", "कब्ज", "थकान", "कमजोरी",
			"चक्कर आना", "सीने में दर्द", "सांस लेने में तकलीफ", "पेट दर्द", "कमर दर्द",
			"जोड़ों में दर्द", "मांसपेशियों में दर्द", "गले में खराश", "नाक बहना", "जुकाम",
			"छींक आना", "दाने", "खुजली", "सूजन", "पेट फूलना", "सीने में जलन", "अपच", "भूख न लगना",
			"वजन कम होना", "वजन बढ़ना", "नींद न आना", "चिंता", "अवसाद", "तनाव", "घबराहट",
			"दिल की धड़कन तेज", "हाई ब्लड प्रेशर", "लो ब्लड प्रेशर", "मधुमेह", "दमा", "एलर्जी",
			"माइग्रेन", "चक्कर", "कान में आवाज", "धुंधला दिखना",
		},
		BodyParts: []string{
			"सिर", "दिमाग", "खोपड़ी", "चेहरा", "माथा", "आंख", "नाक", "मुंह", "होंठ", "जीभ",
			"दांत", "मसूड़े", "जबड़ा", "ठोड़ी", "गाल", "कान", "गर्दन", "गला", "छाती", "स्तन",
			"फेफड़े", "दिल", "पसली", "पीठ", "रीढ़", "कंधा", "बाह", "कोहनी", "हाथ", "उंगली",
			"अंगूठा", "पेट", "लीवर", "किडनी", "मूत्राशय", "आंत", "कमर", "नितंब", "जांघ", "पैर",
			"घुटना", "टखना", "पांव", "एड़ी", "त्वचा", "मांसपेशी", "हड्डी", "जोड़",
		},
		Conditions: []string{
			"उच्च रक्तचाप", "निम्न रक्तचाप", "हृदय गति तेज", "हृदय गति धीमी",
			"हृदय की अनियमित धड़कन", "हृदयाघात", "स्ट्रोक", "खून की कमी", "कैंसर", "ट्यूमर",
			"अल्सर", "निमोनिया", "दमा", "मिर्गी", "पार्किंसन",
		},
		Medications: []string{
			"एस्पिरिन", "आइबूप्रोफेन", "पैरासिटामोल", "एंटीबायोटिक", "एंटासिड", "इंसुलिन",
			"स्टेरॉयड", "एंटीहिस्टामाइन", "खांसी की दवा", "दर्द निवारक",
		},
	},
	"mr-IN": {
		Symptoms: []string{
			"खोकला", "ताप", "डोकेदुखी", "मळमळ", "उलट्या", "जुलाब", "बद्धकोष्ठता", "थकवा",
			"अशक्तपणा", "चक्कर येणे", "छातीत दुखणे", "श्वास घेण्यात त्रास", "पोटदुखी", "पाठदुखी",
			"सांधेदुखी", "स्नायूंची दुखणे", "घशाचा दुखणे", "नाकातून पाणी येणे", "सर्दी",
			"शिंका येणे", "पुरळ", "खाज", "सूज", "पोट फुगणे", "छातीत जळजळ", "अपचन", "भूक न लागणे",
			"वजन कमी होणे", "वजन वाढणे", "झोप न येणे", "चिंता", "नैराश्य", "तणाव", "घाबरणे",
		},
		BodyParts: []string{
			"डोके", "मेंदू", "कवटी", "चेहरा", "कपाळ", "डोळा", "नाक", "तोंड", "ओठ", "जीभ", "दात",
			"हिरड्या", "जबडा", "हनुवटी", "गाल", "कान", "मान", "घसा", "छाती", "स्तन", "फुफ्फुस",
			"हृदय", "फासळी", "पाठ", "मणक्याचे", "खांदा", "बाह", "कोपर", "हात", "बोट", "अंगठा",
			"पोट", "यकृत", "मूत्रपिंड", "मूत्राशय", "आतडे", "कंबर", "नितंब", "मांडी", "पाय",
			"गुडघा", "घोटा", "पाऊल", "टाच", "त्वचा", "स्नायू", "हाड", "सांधे",
		},
		Conditions: []string{
			"उच्च रक्तदाब", "कमी रक्तदाब", "हृदयाचा वेगवान ठोका", "हृदयविकार", "हृदयाघात",
			"पक्षाघात", "रक्ताची कमतरता", "कर्करोग", "ट्यूमर", "व्रण",
		},
		Medications: []string{
			"अ‍ॅस्पिरिन", "आयब्यूप्रोफेन", "पॅरासिटामॉल", "प्रतिजैविक", "अँटासिड",
		},
	},
	"kn-IN": {
		Symptoms: []string{
			"ಕೆಮ್ಮು", "ಜ್ವರ", "ತಲೆನೋವು", "ವಾಕರಿಕೆ", "ವಾಂತಿ", "ಅತಿಸಾರ", "ಮಲಬದ್ಧತೆ", "ಆಯಾಸ",
			"ದೌರ್ಬಲ್ಯ", "ತಲೆತಿರುಗುವಿಕೆ", "ಎದೆನೋವು", "ಉಸಿರಾಟದ ತೊಂದರೆ", "ಹೊಟ್ಟೆನೋವು", "ಬೆನ್ನುನೋವು",
			"ಕೀಲುನೋವು", "ಸ್ನಾಯುನೋವು", "ಗಂಟಲು ನೋವು", "ಮೂಗಿನಿಂದ ನೀರು", "ಶೀತ", "ಸೀನುವಿಕೆ", "ರಾಶ್",
			"ಸುರಿಕೆ", "ಊತ", "ಹೊಟ್ಟೆ ಉಬ್ಬುವಿಕೆ", "ಎದೆಯಲ್ಲಿ ಸುಡುವಿಕೆ", "ಅಜೀರ್ಣ", "ಹಸಿವಿಲ್ಲದಿರುವಿಕೆ",
		},
		BodyParts: []string{
			"ತಲೆ", "ಮೆದುಳು", "ತಲೆಬುರುಡೆ", "ಮುಖ", "ಹಣೆ", "ಕಣ್ಣು", "ಮೂಗು", "ಬಾಯಿ", "ತುಟಿ", "ನಾಲಿಗೆ",
			"ಹಲ್ಲು", "ಒಸಡು", "ದವಡೆ", "ಕೆನ್ನೆ", "ಕಿವಿ", "ಕುತ್ತಿಗೆ", "ಗಂಟಲು", "ಎದೆ", "ಸ್ತನ",
			"ಶ್ವಾಸಕೋಶ", "ಹೃದಯ", "ಪಕ್ಕೆ", "ಬೆನ್ನು", "ಬೆನ್ನುಮೂಳೆ", "ಭುಜ", "ತೋಳು", "ಮೊಣಕೈ", "ಕೈ",
			"ಬೆರಳು", "ಹೊಟ್ಟೆ", "ಯಕೃತ್ತು", "ಮೂತ್ರಪಿಂಡ", "ಮೂತ್ರಕೋಶ", "ಕರುಳು", "ಸೊಂಟ", "ತೊಡೆ",
			"ಕಾಲು", "ಮೊಣಕಾಲು", "ಪಾದ", "ಚರ್ಮ", "ಸ್ನಾಯು", "ಮೂಳೆ",
		},
		Conditions: []string{
			"ಅಧಿಕ ರಕ್ತದೊತ್ತಡ", "ಕಡಿಮೆ ರಕ್ತದೊತ್ತಡ", "ಹೃದಯಾಘಾತ", "ಪಾರ್ಶ್ವಘಾತ", "ರಕ್ತಹೀನತೆ",
			"ಕ್ಯಾನ್ಸರ್", "ಟ್ಯೂಮರ್", "ಹುಣ್ಣು", "ನ್ಯುಮೋನಿಯಾ", "ಆಸ್ತಮಾ",
		},
		Medications: []string{
			"ಆಸ್ಪಿರಿನ್", "ಪ್ಯಾರಸಿಟಮಾಲ್", "ಪ್ರತಿಜೀವಕ", "ಆಂಟಾಸಿಡ್", "ಇನ್ಸುಲಿನ್",
		},
	},
}
