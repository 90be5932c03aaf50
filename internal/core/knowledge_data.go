package core

import "carepoint.io/care-assistant/internal/store"

// DefaultKnowledge is the built-in knowledge base used until an import
// replaces it. Order is match priority.
var DefaultKnowledge = []store.KnowledgeEntry{
	{
		Key:         "headache",
		Kind:        store.KindSymptom,
		Title:       "Headache",
		Description: "Headaches are very common and are usually caused by tension, dehydration, lack of sleep or eye strain. Most settle with rest and fluids.",
		Items:       []string{"Stress and muscle tension", "Dehydration or skipped meals", "Poor sleep", "Long screen time or eye strain", "Migraine", "Sinus congestion"},
		SeekCare:    "See a doctor or a neurologist if the headache is sudden and severe, follows a head injury, comes with fever, stiff neck, confusion, weakness or vision changes, or keeps getting worse over several days.",
		Remedies:    []string{"Rest in a quiet, dark room", "Drink plenty of water", "Apply a cool compress to the forehead", "Limit screen time"},
	},
	{
		Key:         "fever",
		Kind:        store.KindSymptom,
		Title:       "Fever",
		Description: "A fever is a body temperature above 38°C (100.4°F). It is usually the body fighting an infection.",
		Items:       []string{"Viral infections such as flu or cold", "Bacterial infections", "Dengue, malaria or typhoid", "Heat exhaustion", "Reaction to a vaccine"},
		SeekCare:    "See a doctor if the fever is above 39.4°C (103°F), lasts more than three days, or comes with rash, severe headache, breathing difficulty, confusion or persistent vomiting. Infants under three months with any fever need urgent care.",
		Remedies:    []string{"Rest and drink plenty of fluids", "Wear light clothing", "Sponge with lukewarm water"},
	},
	{
		Key:         "cough",
		Kind:        store.KindSymptom,
		Title:       "Cough",
		Description: "A cough clears the airways. Most coughs from colds settle within two to three weeks.",
		Items:       []string{"Common cold or flu", "Allergies", "Asthma", "Acid reflux", "Smoking", "Chest infection"},
		SeekCare:    "See a doctor or a pulmonologist if the cough lasts more than three weeks, brings up blood, or comes with chest pain, weight loss, night sweats or shortness of breath.",
		Remedies:    []string{"Warm water with honey (not for children under one)", "Steam inhalation", "Stay hydrated"},
	},
	{
		Key:         "cold",
		Kind:        store.KindSymptom,
		Title:       "Common cold",
		Description: "The common cold is a viral infection of the nose and throat. It usually clears up on its own within 7 to 10 days.",
		Items:       []string{"Rhinoviruses and other respiratory viruses", "Close contact with infected people", "Seasonal changes"},
		SeekCare:    "See a doctor if symptoms last more than 10 days, the fever is high, or you have ear pain, sinus pain or breathing difficulty.",
		Remedies:    []string{"Rest", "Warm fluids and soups", "Saline nasal drops", "Gargle with warm salt water"},
	},
	{
		Key:         "soreThroat",
		Kind:        store.KindSymptom,
		Title:       "Sore throat",
		Description: "A sore throat is pain or irritation of the throat, most often caused by a viral infection.",
		Items:       []string{"Viral infections", "Strep throat", "Allergies", "Dry air", "Acid reflux"},
		SeekCare:    "See an ENT specialist or doctor if it lasts more than a week, you have difficulty swallowing or breathing, a high fever, or white patches on the tonsils.",
		Remedies:    []string{"Gargle with warm salt water", "Drink warm liquids", "Use throat lozenges"},
	},
	{
		Key:         "stomachPain",
		Kind:        store.KindSymptom,
		Title:       "Stomach pain",
		Description: "Abdominal pain has many causes, from indigestion to infections. Mild pain often settles on its own.",
		Items:       []string{"Indigestion or gas", "Food poisoning", "Gastritis or ulcers", "Constipation", "Appendicitis", "Kidney stones"},
		SeekCare:    "See a gastroenterologist or doctor if the pain is severe, lasts more than a day, or comes with fever, vomiting blood, black stools, or pain in the lower right abdomen.",
		Remedies:    []string{"Eat light, bland food", "Drink clear fluids", "Avoid spicy and oily food"},
	},
	{
		Key:         "backPain",
		Kind:        store.KindSymptom,
		Title:       "Back pain",
		Description: "Back pain is usually caused by muscle strain or posture and improves within a few weeks.",
		Items:       []string{"Poor posture", "Muscle or ligament strain", "Heavy lifting", "Disc problems", "Arthritis"},
		SeekCare:    "See an orthopedist if the pain lasts more than two weeks, spreads down a leg, or comes with numbness, weakness, fever, or loss of bladder or bowel control.",
		Remedies:    []string{"Stay gently active", "Apply heat or cold packs", "Gentle stretching"},
	},
	{
		Key:         "bloodPressure",
		Kind:        store.KindSymptom,
		Title:       "High blood pressure",
		Description: "High blood pressure (hypertension) often has no symptoms but raises the risk of heart disease and stroke.",
		Items:       []string{"Excess salt intake", "Being overweight", "Lack of exercise", "Stress", "Family history", "Kidney disease"},
		SeekCare:    "See a cardiologist or your doctor if readings are repeatedly above 140/90. Seek emergency care for readings above 180/120 with chest pain, headache, or vision changes.",
		Remedies:    []string{"Reduce salt", "Exercise regularly", "Limit alcohol", "Monitor your readings at home"},
	},
	{
		Key:         "diabetes",
		Kind:        store.KindSymptom,
		Title:       "Diabetes",
		Description: "Diabetes is a condition in which blood sugar levels stay too high. It needs long-term care but is very manageable.",
		Items:       []string{"Frequent urination", "Excessive thirst", "Unexplained weight loss", "Fatigue", "Slow-healing wounds"},
		SeekCare:    "See an endocrinologist or your doctor if you notice these symptoms or have a family history of diabetes. Seek urgent care for confusion, fruity-smelling breath or very high readings.",
		Remedies:    []string{"Balanced diet with fewer refined carbohydrates", "Regular physical activity", "Regular sugar monitoring"},
	},
	{
		Key:         "allergy",
		Kind:        store.KindSymptom,
		Title:       "Allergies",
		Description: "Allergies happen when the immune system reacts to something usually harmless, such as pollen, dust or certain foods.",
		Items:       []string{"Pollen and dust mites", "Pet dander", "Foods such as nuts or shellfish", "Insect stings", "Medicines"},
		SeekCare:    "See an allergist or doctor if symptoms affect daily life. Call emergency services at once for swelling of the face or throat or difficulty breathing.",
		Remedies:    []string{"Avoid known triggers", "Keep windows closed during high pollen days", "Rinse the nose with saline"},
	},
	{
		Key:         "rash",
		Kind:        store.KindSymptom,
		Title:       "Skin rash",
		Description: "A rash is a change in skin colour or texture. Many rashes are harmless and settle on their own.",
		Items:       []string{"Allergic reactions", "Eczema", "Fungal infections", "Viral illnesses", "Heat"},
		SeekCare:    "See a dermatologist if the rash spreads quickly, blisters, is painful, or comes with fever. Seek urgent care if it comes with swelling or breathing difficulty.",
		Remedies:    []string{"Keep the area clean and dry", "Avoid scratching", "Use a mild, fragrance-free moisturiser"},
	},
	{
		Key:         "dizziness",
		Kind:        store.KindSymptom,
		Title:       "Dizziness",
		Description: "Dizziness can feel like light-headedness or a spinning sensation. It is often brief and harmless.",
		Items:       []string{"Dehydration", "Low blood sugar", "Inner ear problems", "Low blood pressure", "Side effects of medicines"},
		SeekCare:    "See a doctor if dizziness keeps coming back. Seek emergency care if it comes with fainting, chest pain, slurred speech or weakness on one side.",
		Remedies:    []string{"Sit or lie down until it passes", "Drink water", "Stand up slowly"},
	},
	{
		Key:         "bloodTest",
		Kind:        store.KindProcedure,
		Title:       "Blood test",
		Description: "Blood tests check your general health and help diagnose conditions. A small sample is drawn from a vein in your arm.",
		Items:       []string{"Fast for 8 to 12 hours if your doctor asks (water is fine)", "Tell the lab about any medicines you take", "Wear a shirt with loose sleeves", "Bring your doctor's prescription"},
		SeekCare:    "Discuss your results with your doctor; the lab will flag values outside the normal range.",
	},
	{
		Key:         "xRay",
		Kind:        store.KindProcedure,
		Title:       "X-ray",
		Description: "An X-ray uses a small dose of radiation to take pictures of bones and some organs. It takes only a few minutes.",
		Items:       []string{"Remove jewellery and metal objects", "Wear comfortable clothing", "Tell the technician if you might be pregnant"},
		SeekCare:    "Your doctor will review the images; ask them about anything in the report you do not understand.",
	},
	{
		Key:         "mri",
		Kind:        store.KindProcedure,
		Title:       "MRI scan",
		Description: "An MRI uses strong magnets and radio waves to create detailed images. It is painless and usually takes 30 to 60 minutes.",
		Items:       []string{"Remove all metal objects", "Tell staff about pacemakers, implants or metal fragments", "Tell staff if you are claustrophobic", "Follow fasting instructions if contrast is used"},
		SeekCare:    "Tell the radiology team before the scan about any implants, kidney problems or contrast allergies.",
	},
	{
		Key:         "ctScan",
		Kind:        store.KindProcedure,
		Title:       "CT scan",
		Description: "A CT scan combines X-rays taken from many angles to create cross-section images of the body.",
		Items:       []string{"Fast for 4 hours if contrast is used", "Remove metal objects", "Tell staff about allergies, kidney problems or pregnancy"},
		SeekCare:    "Tell staff immediately if you feel itching, swelling or breathlessness after contrast injection.",
	},
	{
		Key:         "ecg",
		Kind:        store.KindProcedure,
		Title:       "ECG",
		Description: "An electrocardiogram records the electrical activity of your heart. It is quick and painless.",
		Items:       []string{"Avoid oily lotions on the chest", "Wear a top that is easy to remove", "Stay still and breathe normally during the test"},
		SeekCare:    "Your cardiologist will explain the tracing. Report chest pain or palpitations right away.",
	},
	{
		Key:         "ultrasound",
		Kind:        store.KindProcedure,
		Title:       "Ultrasound",
		Description: "An ultrasound uses sound waves to create images of organs. It is safe, painless and uses no radiation.",
		Items:       []string{"For abdominal scans, fast for 6 to 8 hours", "For pelvic scans, drink water and keep a full bladder", "Wear loose clothing"},
		SeekCare:    "Your doctor will discuss the findings with you at your follow-up visit.",
	},
	{
		Key:         "cardiology",
		Kind:        store.KindSpecialty,
		Title:       "Cardiology",
		Description: "Cardiologists diagnose and treat conditions of the heart and blood vessels.",
		Items:       []string{"Chest pain and angina", "High blood pressure", "Irregular heartbeat", "Heart failure", "High cholesterol"},
		SeekCare:    "Book a cardiology consultation for palpitations, breathlessness on exertion, or high blood pressure that is hard to control.",
	},
	{
		Key:         "neurology",
		Kind:        store.KindSpecialty,
		Title:       "Neurology",
		Description: "Neurologists treat disorders of the brain, spinal cord and nerves.",
		Items:       []string{"Migraines and chronic headaches", "Epilepsy and seizures", "Stroke follow-up", "Numbness or tingling", "Memory problems"},
		SeekCare:    "Book a neurology consultation for recurring headaches, numbness, tremors or memory changes.",
	},
	{
		Key:         "orthopedics",
		Kind:        store.KindSpecialty,
		Title:       "Orthopedics",
		Description: "Orthopedic surgeons treat bones, joints, ligaments and muscles.",
		Items:       []string{"Fractures and sprains", "Joint pain and arthritis", "Back and neck pain", "Sports injuries"},
		SeekCare:    "Book an orthopedic consultation for joint pain, swelling or stiffness that lasts more than two weeks.",
	},
	{
		Key:         "dermatology",
		Kind:        store.KindSpecialty,
		Title:       "Dermatology",
		Description: "Dermatologists treat conditions of the skin, hair and nails.",
		Items:       []string{"Acne", "Eczema and psoriasis", "Skin infections", "Hair loss", "Changing moles"},
		SeekCare:    "Book a dermatology consultation for rashes that do not settle, or any mole that changes in size, shape or colour.",
	},
	{
		Key:         "pediatrics",
		Kind:        store.KindSpecialty,
		Title:       "Pediatrics",
		Description: "Pediatricians care for infants, children and teenagers.",
		Items:       []string{"Vaccinations", "Growth and development checks", "Childhood infections", "Feeding concerns"},
		SeekCare:    "Book a pediatric consultation for routine check-ups, and seek urgent care for a child who is unusually drowsy, not feeding, or breathing fast.",
	},
	{
		Key:         "gynecology",
		Kind:        store.KindSpecialty,
		Title:       "Gynecology",
		Description: "Gynecologists care for women's reproductive health.",
		Items:       []string{"Menstrual problems", "Pregnancy care", "PCOS", "Menopause", "Routine screening"},
		SeekCare:    "Book a gynecology consultation for irregular or painful periods, and seek urgent care for heavy bleeding or severe pelvic pain.",
	},
}
