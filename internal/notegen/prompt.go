package notegen

// lecturePrompt is the fixed instructional prompt sent with every request.
// Minimum counts and formatting rules are requested of the model here; no
// post-hoc schema validation happens on the response.
const lecturePrompt = `
Analyze the provided image(s) of a lecture whiteboard or slide acting as an expert academic tutor.
If multiple images are provided, treat them as sequential pages/slides of the same lecture.

Extract the educational content and structure it into a JSON object.
The JSON structure should be:
{
  "title": "A short, descriptive title",
  "subject": "The academic subject (e.g., Computer Science, Calculus, History)",
  "summary": "A comprehensive, detailed summary of the lecture content. Explain the concepts thoroughly as if teaching a student. (Min 2 paragraphs)",
  "keyPoints": ["Detailed Point 1", "Detailed Point 2", "Detailed Point 3", "Detailed Point 4", "Detailed Point 5"],
  "quiz": [
    {
      "question": "A challenging multiple choice question testing conceptual understanding",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0
    }
  ]
}

IMPORTANT REQUIREMENTS:
1. Generate AT LEAST 5 unique quiz questions.
2. The summary must be detailed and educational, not just a brief overview.
3. Key points should be substantive statements, not short phrases.
4. The "correctAnswer" field is the index (0-3) of the correct option.
5. Do not include markdown formatting or backticks in the response, just the raw JSON string.
`
