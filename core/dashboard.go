package core

import (
	"time"

	"github.com/wansing/copydesk/auth"
)

// A DashboardRow is one line of the admin timeline: a topic, its project
// name and the four stage timestamps as dates. Unset timestamps render as
// empty strings.
type DashboardRow struct {
	Project             string `json:"project"`
	Topic               string `json:"topic"`
	Month               string `json:"month"`
	ResearchSubmittedAt string `json:"researchSubmittedAt"`
	AdminAssignedAt     string `json:"adminAssignedAt"`
	WriterSubmittedAt   string `json:"writerSubmittedAt"`
	PublishedAt         string `json:"publishedAt"`
}

func formatDate(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// Dashboard joins topics, articles and project names into the timeline
// view. It reads point-in-time snapshots of both stores, merges articles
// by topic id and tolerates topics without an article.
func (c *CoreDB) Dashboard(caller auth.User) ([]DashboardRow, error) {

	if err := require(OpViewDashboard, caller); err != nil {
		return nil, err
	}

	topics, err := c.GetAllTopics(100000, 0) // assuming there are not more than 100k topics
	if err != nil {
		return nil, err
	}

	var topicIDs = make([]int, len(topics))
	for i, t := range topics {
		topicIDs[i] = t.ID()
	}

	articles, err := c.GetArticlesByTopics(topicIDs)
	if err != nil {
		return nil, err
	}

	var byTopic = make(map[int]DBArticle)
	for _, a := range articles {
		byTopic[a.TopicID()] = a
	}

	var rows = make([]DashboardRow, 0, len(topics))
	for _, t := range topics {

		var projectName = "N/A"
		if p, err := c.GetProject(t.ProjectID()); err == nil {
			projectName = p.Name()
		} else if !notFound(err) {
			return nil, err
		}

		var row = DashboardRow{
			Project:             projectName,
			Topic:               t.Title(),
			Month:               t.Month(),
			ResearchSubmittedAt: formatDate(t.ResearchSubmittedAt()),
			AdminAssignedAt:     formatDate(t.AdminAssignedAt()),
		}

		if a, ok := byTopic[t.ID()]; ok {
			row.WriterSubmittedAt = formatDate(a.WriterSubmittedAt())
			row.PublishedAt = formatDate(a.PublishedAt())
		}

		rows = append(rows, row)
	}

	return rows, nil
}
