// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prompt

// Topic is a predefined story theme with the life lesson it carries.
type Topic struct {
	ID     string            `json:"id"`
	Lesson map[Locale]string `json:"lesson"`
}

// storyTopics is the predefined topic catalog, in display order.
var storyTopics = []Topic{
	{ID: "vegetables", Lesson: map[Locale]string{LocaleEnglish: "Healthy eating", LocaleUkrainian: "Здорове харчування"}},
	{ID: "dragon", Lesson: map[Locale]string{LocaleEnglish: "Managing emotions", LocaleUkrainian: "Керування емоціями"}},
	{ID: "homework", Lesson: map[Locale]string{LocaleEnglish: "Responsibility", LocaleUkrainian: "Відповідальність"}},
	{ID: "grandma", Lesson: map[Locale]string{LocaleEnglish: "Respecting elders", LocaleUkrainian: "Повага до старших"}},
	{ID: "gravity", Lesson: map[Locale]string{LocaleEnglish: "Problem-solving", LocaleUkrainian: "Вирішення проблем"}},
	{ID: "robot", Lesson: map[Locale]string{LocaleEnglish: "Making friends", LocaleUkrainian: "Як знаходити друзів"}},
	{ID: "tooth", Lesson: map[Locale]string{LocaleEnglish: "Money basics", LocaleUkrainian: "Основи грошей"}},
	{ID: "pirates", Lesson: map[Locale]string{LocaleEnglish: "Facing fears", LocaleUkrainian: "Подолання страхів"}},
	{ID: "superhero", Lesson: map[Locale]string{LocaleEnglish: "Finding purpose", LocaleUkrainian: "Пошук мети"}},
	{ID: "teddy", Lesson: map[Locale]string{LocaleEnglish: "Appreciating the present", LocaleUkrainian: "Цінувати теперішнє"}},
}

// Topics returns the predefined topic catalog.
func Topics() []Topic {
	topics := make([]Topic, len(storyTopics))
	copy(topics, storyTopics)
	return topics
}

// TopicLesson looks up the lesson text for a predefined topic.
// The second return value is false for custom (free-form) topics.
func TopicLesson(topicID string, locale Locale) (string, bool) {
	for _, topic := range storyTopics {
		if topic.ID == topicID {
			return topic.Lesson[locale], true
		}
	}
	return "", false
}
