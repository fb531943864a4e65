package questions

import (
	"fmt"
	"regexp"
	"strings"
)

// bankOrder fixes the iteration order over the curated banks so that a
// given tech stack always yields the same fallback set.
var bankOrder = []string{"python", "javascript", "react", "java", "go", "sql", "aws", "devops"}

// banks holds curated screening questions per technology.
var banks = map[string][]string{
	"python": {
		"Can you explain the difference between a list and a tuple in Python?",
		"How does Python's garbage collection work?",
		"What are decorators in Python and how have you used them?",
		"Explain the difference between deep copy and shallow copy in Python.",
		"How would you handle exceptions in a Python application?",
	},
	"javascript": {
		"What is the difference between var, let, and const in JavaScript?",
		"Can you explain how closures work in JavaScript?",
		"What is the event loop and how does it handle asynchronous operations?",
		"Explain the difference between == and === in JavaScript.",
		"How do promises differ from async/await?",
	},
	"react": {
		"What is the virtual DOM and how does React use it?",
		"Can you explain the difference between state and props in React?",
		"What are React hooks and which ones have you used?",
		"How would you optimize the performance of a React application?",
		"Explain the component lifecycle in React.",
	},
	"java": {
		"What is the difference between an interface and an abstract class in Java?",
		"How does garbage collection work in the JVM?",
		"Can you explain the concept of multithreading in Java?",
		"What are the main principles of object-oriented programming?",
		"How do you handle exceptions in Java?",
	},
	"go": {
		"What is a goroutine and how does it differ from an OS thread?",
		"How do channels help coordinate concurrent work in Go?",
		"When would you accept an interface and return a struct in Go?",
		"How does Go's error handling differ from exception-based languages?",
		"What does the context package give you in a server application?",
	},
	"sql": {
		"What is the difference between INNER JOIN and LEFT JOIN?",
		"How would you optimize a slow-running query?",
		"Can you explain database normalization?",
		"What are indexes and when should you use them?",
		"Explain the difference between DELETE, TRUNCATE, and DROP.",
	},
	"aws": {
		"Which AWS services have you worked with and in what context?",
		"How would you design a highly available architecture on AWS?",
		"What is the difference between EC2 and Lambda?",
		"How do you manage security and access control in AWS?",
		"Explain the difference between S3 storage classes.",
	},
	"devops": {
		"What CI/CD tools have you worked with?",
		"How do you approach infrastructure as code?",
		"Can you explain the difference between Docker containers and virtual machines?",
		"How would you monitor a production application?",
		"What strategies do you use for zero-downtime deployments?",
	},
}

// genericTemplates produce stack-specific questions when no curated bank
// matches the declared technologies.
var genericTemplates = []string{
	"Could you explain your experience with %s?",
	"What projects have you worked on using %s?",
	"What challenges have you faced when working with %s?",
	"How do you stay updated with the latest developments in %s?",
	"Can you describe a complex problem you solved using %s?",
}

// tokenSplit breaks a declared stack into comparable tokens. Keeping "+"
// and "#" attached preserves names like "c++" and "c#".
var tokenSplit = regexp.MustCompile(`[^a-z0-9+#]+`)

// Fallback returns curated questions for the declared tech stack. Matching
// is token-exact, so "JavaScript" does not also trigger the Java bank. The
// result always holds between MinQuestions and MaxQuestions entries.
func Fallback(techStack string) []string {
	tokens := make(map[string]bool)
	for _, tok := range tokenSplit.Split(strings.ToLower(techStack), -1) {
		if tok != "" {
			tokens[tok] = true
		}
	}

	var out []string
	for _, tech := range bankOrder {
		if !tokens[tech] {
			continue
		}
		for _, q := range banks[tech] {
			if len(out) >= MaxQuestions {
				return out
			}
			out = append(out, q)
		}
	}

	if len(out) < MinQuestions {
		for _, tmpl := range genericTemplates {
			if len(out) >= MaxQuestions {
				break
			}
			out = append(out, fmt.Sprintf(tmpl, techStack))
		}
	}
	return out
}
