package parser

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singlePostURL = "https://bitcointalk.org/index.php?topic=555.msg777#msg777"

func topicPageHTML(url, subject, author string, uid int64, date, body string) string {
	return fmt.Sprintf(`
	<span class="smalltext">December 25, 2023, 10:15:42 AM</span>
	<div id="bodyarea"><div><div>
		<b>Bitcoin Forum</b><b>Economy</b><b>Services</b><b>%s</b>
	</div></div></div>
	<form id="quickModForm">
	<table class="bordercolor"><tbody><tr><td>
		<table><tbody><tr><td>
			<table><tbody>
				<tr>
					<td class="poster_info"><b><a href="https://bitcointalk.org/index.php?action=profile;u=%d">%s</a></b></td>
					<td class="td_headerandpost">
						<table><tbody><tr><td>
							<div id="subject_777"><a href="%s">%s</a></div>
							<div>%s</div>
						</td></tr></tbody></table>
						<div class="post">%s</div>
					</td>
				</tr>
			</tbody></table>
		</td></tr></tbody></table>
	</td></tr></tbody></table>
	</form>`, subject, uid, author, url, subject, date, body)
}

func TestSinglePost(t *testing.T) {
	doc := docFromHTML(t, topicPageHTML(
		singlePostURL, "Re: Hello", "alice", 12345, "December 25, 2023, 09:59:01 AM", "hey <b>bob</b>!"))

	post, err := SinglePost(doc, singlePostURL)
	require.NoError(t, err)

	assert.Equal(t, int64(777), post.ID)
	assert.Equal(t, "Economy / Services / Re: Hello", post.Title)
	assert.Equal(t, "alice", post.Author)
	assert.Equal(t, int64(12345), post.AuthorUID)
	assert.Equal(t, time.Date(2023, time.December, 25, 9, 59, 1, 0, time.UTC), post.Date)
	assert.Equal(t, "hey <b>bob</b>!", post.Content)
	assert.Equal(t, singlePostURL, post.Link)
}

func TestSinglePost_TodayTimestamp(t *testing.T) {
	doc := docFromHTML(t, topicPageHTML(
		singlePostURL, "Re: Hello", "alice", 12345, "Today at 09:59:01 AM", "body"))

	post, err := SinglePost(doc, singlePostURL)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 25, 9, 59, 1, 0, time.UTC), post.Date)
}

func TestSinglePost_StripsLastEdit(t *testing.T) {
	doc := docFromHTML(t, topicPageHTML(
		singlePostURL, "Re: Hello", "alice", 12345,
		"December 25, 2023, 09:59:01 AM Last edit: December 25, 2023, 10:00:00 AM by alice", "body"))

	post, err := SinglePost(doc, singlePostURL)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 25, 9, 59, 1, 0, time.UTC), post.Date)
}

func TestSinglePost_MessageNotOnPage(t *testing.T) {
	other := "https://bitcointalk.org/index.php?topic=555.msg778#msg778"
	doc := docFromHTML(t, topicPageHTML(
		singlePostURL, "Re: Hello", "alice", 12345, "December 25, 2023, 09:59:01 AM", "body"))

	_, err := SinglePost(doc, other)
	assert.ErrorIs(t, err, ErrMissingAnchor)
}

func TestSinglePost_MissingPostsTable(t *testing.T) {
	doc := docFromHTML(t, `<span class="smalltext">December 25, 2023, 10:15:42 AM</span>`)

	_, err := SinglePost(doc, singlePostURL)
	assert.ErrorIs(t, err, ErrMissingAnchor)
}
