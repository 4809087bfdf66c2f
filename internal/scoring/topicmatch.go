// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import "strings"

// TopicMatchScore measures, on a 0-5 scale and without any service call,
// how well an idea's tags line up with the user's selected topics.
//
// With no user topics every idea gets the neutral 3. An idea with no tags
// against a non-empty topic list gets 2.5: slightly below neutral, so a
// missing tag list is not rewarded with the no-topic neutral score. The
// two defaults are deliberately asymmetric; both literal values are part
// of the scoring contract.
//
// Otherwise each tag that case-insensitively contains, or is contained by,
// any user topic counts as one hit; the score is the hit count over the
// topic count, capped at 1, times 5.
func TopicMatchScore(tags, userTopics []string) float64 {
	if len(userTopics) == 0 {
		return 3
	}
	if len(tags) == 0 {
		return 2.5
	}

	topics := make([]string, len(userTopics))
	for i, t := range userTopics {
		topics[i] = strings.ToLower(t)
	}

	matches := 0
	for _, tag := range tags {
		lt := strings.ToLower(tag)
		for _, topic := range topics {
			if strings.Contains(lt, topic) || strings.Contains(topic, lt) {
				matches++
				break
			}
		}
	}

	ratio := float64(matches) / float64(len(userTopics))
	score := ratio * 5
	if score > 5 {
		score = 5
	}
	return score
}
