package planner

import "fmt"

// textBranchPhrase in the classification reply selects the text branch.
const textBranchPhrase = "text and link"

const systemPrompt = `You are an assistant that helps me understand a topic and find inspiration for it. Your main job is to find the best images, content, and online resources about the topic. Assume I typed the topic into a search box on a website and cannot give you any follow-up context.

First decide what kind of content would be most valuable. Design-oriented topics such as "wedding dresses", "beautiful homes" or "brutalist architecture" are usually best served by visual image content, because people want pictures to understand them or to get inspired. Task-oriented topics such as "home repair", "history of Scotland" or "how to start a business" are usually best served by text and link content, because people want authoritative information or answers.`

const classifyPromptTemplate = `I am interested in the topic:
%s

Am I more interested in visual content or text and link based content? Pick the best of the two options even if the choice is ambiguous. State the answer plainly at the very start of your reply. Do not list any links, resources or queries yet; that comes in a later question.`

const textPromptTemplate = `You can use three search engines.

The first queries Wikipedia directly. The second surfaces interesting Reddit posts by keyword matching on post titles and text. The third surfaces podcast episodes by keyword matching.

Wikipedia queries should be direct so that a relevant article is likely to come back. Reddit and podcast queries should be specific and go beyond the obvious, overly broad phrasing so that they surface the most interesting posts and episodes.

Give 2 queries that will return the most interesting Wikipedia articles, 3 queries that will return the most valuable Reddit posts, and 3 queries that will return the most insightful podcast episodes about:
%s

Answer with a numbered list. Put the search engine in brackets and the whole query in double quotes, for example: 1. [Reddit] "Taylor Swift relationships" 2. [Podcast] "Impact of Taylor Swift on music" 3. [Wikipedia] "Taylor Swift albums"`

const imagePromptTemplate = `You can use the free stock photo site Unsplash. It has a broad range of photos; the key is finding the highest quality images.

Give 3 great queries that will provide strong visual inspiration and are different enough from one another to cover a broad range of relevant, high quality Unsplash images on the topic of:
%s

Answer with a numbered list. Put "[Unsplash]" before each query and the whole query in double quotes, for example: 1. [Unsplash] "Wildlife on a mountain top at sunset" 2. [Unsplash] "High quality capture of a mountain top at sunset"`

func classifyPrompt(topic string) string {
	return fmt.Sprintf(classifyPromptTemplate, topic)
}

func followUpPrompt(branch Branch, topic string) string {
	if branch == TextBranch {
		return fmt.Sprintf(textPromptTemplate, topic)
	}
	return fmt.Sprintf(imagePromptTemplate, topic)
}
