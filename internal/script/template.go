package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

type implTemplateGenerator struct{}

// NewTemplateGenerator creates the offline, deterministic Generator.
func NewTemplateGenerator() Generator {
	return &implTemplateGenerator{}
}

var simplePersonaKeywords = []string{"high school", "beginner", "first year", "no calculus"}

// Generate picks a template by keyword matching on the requirement and persona.
func (g *implTemplateGenerator) Generate(ctx context.Context, requirement, persona string) (Script, error) {
	topic := strings.TrimSpace(requirement)
	if topic == "" {
		return Script{}, apperr.New(apperr.InvalidRequest, "script.template", "course requirement is required")
	}

	simple := containsAny(strings.ToLower(persona), simplePersonaKeywords...)
	t := strings.ToLower(topic)

	var s Script
	switch {
	case containsAny(t, "neural", "network"):
		s = neuralNetworks(simple)
	case containsAny(t, "algebra", "equation", "方程"):
		s = algebra(topic, simple)
	case containsAny(t, "course", "introduction", "介紹"):
		s = aiCourse()
	default:
		s = generic(topic)
	}

	if err := Validate(&s); err != nil {
		return Script{}, fmt.Errorf("template for %q: %w", topic, err)
	}
	return s, nil
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func neuralNetworks(simple bool) Script {
	if simple {
		return Script{
			Title: "Neural Networks",
			Segments: []Segment{
				{
					Title:     "The Basics of Neural Networks",
					Bullets:   []string{"A computer brain that learns patterns", "Inspired by how our brains work", "Learns from examples, not rules"},
					Narration: "A neural network is like a computer brain that learns patterns, similar to how our brains work.",
				},
				{
					Title:     "How Neurons Work",
					Bullets:   []string{"Nodes arranged in layers", "Input, hidden and output layers", "Information flows forward"},
					Narration: "Just like our brain has neurons connected together, artificial neural networks have nodes arranged in layers. Information flows from input, through hidden layers, to output.",
				},
				{
					Title:     "The Learning Process",
					Bullets:   []string{"Show many examples", "Compare guesses with answers", "Improve a little every time"},
					Narration: "Neural networks learn by seeing many examples. Show it thousands of pictures of cats and dogs, and it learns to tell them apart. This process is called training.",
				},
				{
					Title:     "Why It Matters",
					Bullets:   []string{"Voice assistants", "Image recognition", "Language translation"},
					Narration: "Neural networks power amazing technologies like voice assistants, image recognition, and language translation. They find patterns that humans might miss.",
				},
			},
		}
	}
	return Script{
		Title: "Neural Networks",
		Segments: []Segment{
			{
				Title:     "Core Concepts",
				Bullets:   []string{"Universal function approximators", "Building block of deep learning", "Parameters learned from data"},
				Narration: "Neural networks are a fundamental building block of modern artificial intelligence and deep learning.",
			},
			{
				Title:     "Architecture",
				Bullets:   []string{"Layers of interconnected nodes", "Weighted connections", "Non-linear activation functions"},
				Narration: "Neural networks consist of interconnected layers of nodes. Each connection has a weight. Data flows forward through the network, transformed by activation functions at each layer.",
			},
			{
				Title:     "Training with Backpropagation",
				Bullets:   []string{"Define a loss function", "Compute gradients layer by layer", "Update weights with gradient descent"},
				Narration: "Networks learn through backpropagation. The algorithm computes gradients of the loss function with respect to each weight, then adjusts weights to minimize prediction errors.",
			},
			{
				Title:     "Applications",
				Bullets:   []string{"Image classification", "Natural language processing", "Speech recognition", "Recommendation systems"},
				Narration: "Neural networks excel at pattern recognition: image classification, natural language processing, speech recognition, and recommendation systems are common applications.",
			},
		},
	}
}

func algebra(topic string, simple bool) Script {
	if simple {
		return Script{
			Title: topic,
			Segments: []Segment{
				{
					Title:     "The Basics: What Is an Equation?",
					Bullets:   []string{"Two sides that must balance", "A variable stands for an unknown", "Example: 2x + 3 = 7"},
					Narration: "An equation is like a balance scale. Both sides must be equal. A letter such as x stands for a number we do not know yet.",
				},
				{
					Title:     "Core Concepts: Variables and Vectors",
					Bullets:   []string{"Variables hold unknown values", "Vectors are lists of numbers", "Vectors have size and direction"},
					Narration: "In algebra we work with variables, and in linear algebra we also use vectors, which are simply lists of numbers with a size and a direction.",
				},
				{
					Title:     "Solving Step by Step",
					Bullets:   []string{"Do the same thing to both sides", "Isolate the variable", "Check your answer"},
					Narration: "To solve an equation, we isolate the variable on one side. We can add, subtract, multiply, or divide both sides by the same number to keep the equation balanced.",
				},
				{
					Title:     "Real World Examples",
					Bullets:   []string{"Calculating costs", "Converting temperatures", "Computer graphics"},
					Narration: "Linear equations appear everywhere: calculating costs, converting temperatures, and even moving characters around in video games.",
				},
			},
		}
	}
	return Script{
		Title: topic,
		Segments: []Segment{
			{
				Title:     "Core Concepts",
				Bullets:   []string{"Vectors and vector spaces", "Linear combinations and span", "Linear independence"},
				Narration: "Linear algebra studies vectors, vector spaces, and the linear maps between them. Span and linear independence describe what a set of vectors can reach.",
			},
			{
				Title:     "Linear Equations and Matrices",
				Bullets:   []string{"Systems written as Ax = b", "Gaussian elimination", "Rank and solution sets"},
				Narration: "A system of linear equations can be written compactly as a matrix equation. Gaussian elimination reduces it to a form where the solutions can be read off directly.",
			},
			{
				Title:     "Linear Transformations",
				Bullets:   []string{"Matrices as functions", "Composition is multiplication", "Determinants measure scaling"},
				Narration: "Every matrix describes a linear transformation. Multiplying matrices composes transformations, and the determinant tells us how areas and volumes are scaled.",
			},
			{
				Title:     "Eigenvalues and Applications",
				Bullets:   []string{"Directions preserved by a transformation", "Diagonalization", "Graphics, data science, physics"},
				Narration: "Eigenvectors are directions a transformation only stretches. They power applications from computer graphics to principal component analysis.",
			},
		},
	}
}

func aiCourse() Script {
	return Script{
		Title: "AI and Machine Learning",
		Segments: []Segment{
			{
				Title:     "What is AI?",
				Bullets:   []string{"Systems that perform intelligent tasks", "Understanding language", "Recognizing images"},
				Narration: "Artificial Intelligence is the field of computer science focused on creating systems that can perform tasks that normally require human intelligence, such as understanding language and recognizing images.",
			},
			{
				Title:     "What is Machine Learning?",
				Bullets:   []string{"A subset of AI", "Learns patterns from data", "Not explicitly programmed"},
				Narration: "Machine Learning is a subset of AI where computers learn patterns from data instead of being explicitly programmed. It is the driving force behind many modern AI applications.",
			},
			{
				Title:     "Course Overview",
				Bullets:   []string{"Supervised learning", "Unsupervised learning", "Neural networks", "Practical applications"},
				Narration: "In this course, we will cover supervised learning, unsupervised learning, neural networks, and practical applications. Each topic builds on the previous one.",
			},
			{
				Title:     "Getting Started",
				Bullets:   []string{"Stay curious", "Practice with real data", "Learn by doing"},
				Narration: "To succeed in this course, stay curious and practice with real data. The best way to learn AI is by doing.",
			},
		},
	}
}

func generic(topic string) Script {
	return Script{
		Title: topic,
		Segments: []Segment{
			{
				Title:     "The Basics",
				Bullets:   []string{"What " + topic + " is", "Why it matters", "Where it is used"},
				Narration: fmt.Sprintf("Let's start with the basics of %s. This is an important subject with many practical applications.", topic),
			},
			{
				Title:     "Core Concepts",
				Bullets:   []string{"Key principles", "Important vocabulary", "How the parts fit together"},
				Narration: fmt.Sprintf("The foundation of %s involves understanding its key principles and how different components work together as a system.", topic),
			},
			{
				Title:     "How It Works",
				Bullets:   []string{"Well-defined steps", "Each step builds on the last", "Reaching the desired outcome"},
				Narration: fmt.Sprintf("%s operates through a series of well-defined steps and processes. Each step builds upon the previous one to achieve the desired outcome.", topic),
			},
			{
				Title:     "Applications",
				Bullets:   []string{"Industry", "Research", "Everyday life"},
				Narration: fmt.Sprintf("%s is applied in many real-world scenarios, from industry to research. Understanding these applications helps connect theory to practice.", topic),
			},
		},
	}
}
