package usecases

import (
	"strings"
)

func buildAnalysisPrompt(resumeChunks []string, jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("You are a career coach. Below is a RESUME SUMMARY and a JOB DESCRIPTION. Analyze and output:\n")
	sb.WriteString("1. Key Strengths\n2. Weaknesses or gaps\n3. Suggestions for improvement\n\n")
	sb.WriteString("--- RESUME SUMMARY ---\n")
	sb.WriteString(strings.Join(resumeChunks, "\n"))
	sb.WriteString("\n\n--- JOB DESCRIPTION ---\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n")
	return sb.String()
}

func buildSuggestPrompt(examples []string, resume, jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("Use the following resume bullet examples as reference:\n\n")
	sb.WriteString("--- EXAMPLES ---\n")
	sb.WriteString(strings.Join(examples, "\n"))
	sb.WriteString("\n\nNow improve this resume section based on the job description below:\n\n")
	sb.WriteString("--- RESUME ---\n")
	sb.WriteString(resume)
	sb.WriteString("\n\n--- JOB DESCRIPTION ---\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nOutput 3 improved bullet points tailored to the job, using action verbs and specific impact.\n")
	return sb.String()
}

func buildStarPrompt(req StarRequest, examples []string) string {
	var sb strings.Builder
	sb.WriteString("You are a career coach. Help format the following story into a STAR response.\n")
	sb.WriteString("Use only the user's input and relevant resume bullets (if any).\n")
	sb.WriteString("Focus especially on clear Action and Result. Where appropriate, include quantifiable metrics or specific outcomes.\n\n")

	section := func(title, body string) {
		sb.WriteString("--- ")
		sb.WriteString(title)
		sb.WriteString(" ---\n")
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}
	section("INTERVIEW QUESTION", req.Question)
	section("USER STORY", req.Story)
	section("OPTIONAL JOB ROLE", req.Role)
	section("OPTIONAL RESUME", req.Resume)

	bullets := make([]string, len(examples))
	for i, ex := range examples {
		bullets[i] = "- " + ex
	}
	section("RELEVANT EXAMPLES", strings.Join(bullets, "\n"))

	sb.WriteString("Format your response like:\nSituation:\nTask:\nAction:\nResult:\n")
	return sb.String()
}
