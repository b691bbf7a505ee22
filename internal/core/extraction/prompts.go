package extraction

// DefaultImagePrompt takes the user's context clues.
const DefaultImagePrompt = `Analyze the people in this picture.
Context clues from the user: "%s"

Tasks:
1. Find every face or person in the picture.
2. Combine the clues (position, clothing, features) to infer each person's name.
3. If the clues do not mention someone or you are unsure, set "suggested_name" to null.
4. Give each person's bounding box as box_2d: [ymin, xmin, ymax, xmax], normalised to 0-1000.

For every person return a JSON object with:
- description: a short visual description.
- suggested_name: the inferred name, if any.
- confidence_reason: why you inferred it.
- box_2d: [ymin, xmin, ymax, xmax]

Important: answer with a JSON list only.`

// DefaultTextPrompt takes the journal text.
const DefaultTextPrompt = `Analyze this journal entry: "%s"

Extract the people mentioned in it, excluding the author ("I", "me").
For each person infer their relationship to the author (friend, teacher, coworker, stranger, ...).

Answer with a JSON list:
[
  {"name": "Old Wang", "relation": "Neighbor", "description": "traits or context taken from the text"}
]
If nobody else is mentioned, answer [].`
