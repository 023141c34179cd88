package jira

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/relgate/internal/models"
)

// issueLinks mirrors the fields=issuelinks,subtasks slice of the Jira
// issue payload. Link ends and subtask keys are all optional.
type issueLinks struct {
	Fields struct {
		IssueLinks []struct {
			OutwardIssue *linkedIssue `json:"outwardIssue"`
			InwardIssue  *linkedIssue `json:"inwardIssue"`
		} `json:"issuelinks"`
		Subtasks []linkedIssue `json:"subtasks"`
	} `json:"fields"`
}

type linkedIssue struct {
	Key string `json:"key"`
}

// ApprovedKeys returns the set of issue keys approved under the given
// approval ticket: the ticket itself plus every issue one link or
// subtask hop away. No transitive closure. On any fetch or parse
// failure the set is empty and the error is logged; callers treat an
// empty set as "could not verify" and fail closed.
func (c *Client) ApprovedKeys(ctx context.Context, approvalTicket string) models.KeySet {
	path := fmt.Sprintf("/rest/api/2/issue/%s?fields=issuelinks,subtasks", approvalTicket)

	data, err := c.makeRequest(ctx, path)
	if err != nil {
		c.logger.Error().Err(err).Str("ticket", approvalTicket).Msg("Failed to fetch approval ticket")
		return models.NewKeySet()
	}

	var issue issueLinks
	if err := json.Unmarshal(data, &issue); err != nil {
		c.logger.Error().Err(err).Str("ticket", approvalTicket).Msg("Failed to parse approval ticket")
		return models.NewKeySet()
	}

	approved := models.NewKeySet(approvalTicket)

	for _, link := range issue.Fields.IssueLinks {
		if link.OutwardIssue != nil {
			approved.Add(link.OutwardIssue.Key)
		}
		if link.InwardIssue != nil {
			approved.Add(link.InwardIssue.Key)
		}
	}
	for _, subtask := range issue.Fields.Subtasks {
		approved.Add(subtask.Key)
	}

	return approved
}
