package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-bot/fetcher"
	"forum-bot/models"
)

// fakeFetcher serves canned documents instead of hitting the forum.
type fakeFetcher struct {
	recent *goquery.Document
	merits *goquery.Document
	modlog *goquery.Document
	single *goquery.Document
	topic  *goquery.Document
	err    error
}

func (f *fakeFetcher) RecentPosts() (*goquery.Document, error)           { return f.recent, f.err }
func (f *fakeFetcher) MeritStats() (*goquery.Document, error)            { return f.merits, f.err }
func (f *fakeFetcher) ModerationLog() (*goquery.Document, error)         { return f.modlog, f.err }
func (f *fakeFetcher) SinglePost(url string) (*goquery.Document, error)  { return f.single, f.err }
func (f *fakeFetcher) SingleTopic(url string) (*goquery.Document, error) { return f.topic, f.err }

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func recentPageDoc(t *testing.T) *goquery.Document {
	return parseDoc(t, `<span class="smalltext">December 25, 2023, 10:15:42 AM</span>
	<div id="bodyarea"><table cellpadding="4"><tbody>
		<tr><td class="catbg"><span class="middletext">Last post by alice</span></td></tr>
		<tr><td><span><a href="#">Services</a> <a href="https://bitcointalk.org/index.php?action=profile;u=12345">alice</a></span></td></tr>
		<tr><td class="middletext">
			<div>Economy / Services</div>
			<div><b><a href="https://bitcointalk.org/index.php?topic=555.msg777#msg777">Re: Hello</a></b></div>
			<div>on: Today at 09:59:01 AM</div>
		</td></tr>
		<tr><td class="windowbg2"><div class="post">hey bob!</div></td></tr>
	</tbody></table></div>`)
}

func TestScrapeRecent(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.Fetcher = &fakeFetcher{recent: recentPageDoc(t)}

	require.NoError(t, p.ScrapeRecent())

	post, err := p.Store.FindPostByID(777)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "alice", post.Author)

	// Scraping the same page again changes nothing.
	require.NoError(t, p.ScrapeRecent())
	posts, err := p.Store.FindRecentPosts(time.Hour, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestScrapeRecent_TransientFetchError(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.Fetcher = &fakeFetcher{err: errors.New("connection reset")}

	assert.NoError(t, p.ScrapeRecent(), "transient fetch errors wait for the next tick")
}

func TestScrapeRecent_FatalFetchError(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.Fetcher = &fakeFetcher{err: fmt.Errorf("fetching recent: %w", fetcher.ErrDNSFailure)}

	err := p.ScrapeRecent()
	require.Error(t, err)
	assert.True(t, fetcher.IsFatal(err))
}

func TestScrapeModlog(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.Fetcher = &fakeFetcher{modlog: parseDoc(t, `<div id="helpmain"><ul>
		<li>Remove topic: <a href="#">mod</a> <a href="https://bitcointalk.org/index.php?topic=999.0">link</a> (<i>Spam thread</i>)</li>
	</ul></div>`)}

	require.NoError(t, p.ScrapeModlog())

	events, err := p.Modlog.Unnotified()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(999), events[0].TopicID)
}

func TestProcessMeritCandidate_CompletePost(t *testing.T) {
	p, _ := newTestPipeline(t)
	seedPost(t, p, 777, "alice", "body")

	candidate := models.MeritCandidate{
		Datetime: time.Now().UTC(),
		Amount:   2,
		Sender:   "generous",
		PostID:   777,
		PostLink: "/index.php?topic=555.msg777#msg777",
	}
	require.NoError(t, p.processMeritCandidate(candidate, map[int64]bool{12345: true}))

	merits, err := p.Store.FindUnnotifiedMerits(time.Hour)
	require.NoError(t, err)
	require.Len(t, merits, 1)
	assert.Equal(t, int64(12345), merits[0].ReceiverUID)
	assert.Equal(t, "Re: Hello", merits[0].PostTitle)
}

func TestProcessMeritCandidate_UnregisteredReceiver(t *testing.T) {
	p, _ := newTestPipeline(t)
	seedPost(t, p, 777, "alice", "body")

	candidate := models.MeritCandidate{
		Datetime: time.Now().UTC(),
		PostID:   777,
		PostLink: "/index.php?topic=555.msg777#msg777",
	}
	require.NoError(t, p.processMeritCandidate(candidate, map[int64]bool{}))

	merits, err := p.Store.FindUnnotifiedMerits(time.Hour)
	require.NoError(t, err)
	assert.Empty(t, merits, "merits for unregistered receivers are not stored")
}

func TestProcessMeritCandidate_IncompletePostSchedulesBackfill(t *testing.T) {
	p, _ := newTestPipeline(t)

	stub := models.Post{
		ID:     777,
		Title:  models.PlaceholderTitle,
		Date:   time.Now().UTC(),
		Author: "alice",
		Link:   "https://bitcointalk.org/index.php?topic=555.msg777#msg777",
	}
	_, err := p.Store.InsertPostIfAbsent(stub)
	require.NoError(t, err)

	// Position 5 pushes the backfill timer far past the test's lifetime.
	candidate := models.MeritCandidate{
		Datetime: time.Now().UTC(),
		PostID:   777,
		PostLink: "/index.php?topic=555.msg777#msg777",
		Position: 5,
	}
	require.NoError(t, p.processMeritCandidate(candidate, map[int64]bool{12345: true}))

	merits, err := p.Store.FindUnnotifiedMerits(time.Hour)
	require.NoError(t, err)
	assert.Empty(t, merits, "incomplete posts defer to backfill instead of storing a merit")
}

func TestBackfillPost_CompletesStub(t *testing.T) {
	p, _ := newTestPipeline(t)
	url := "https://bitcointalk.org/index.php?topic=555.msg777#msg777"

	stub := models.Post{
		ID:     777,
		Title:  models.PlaceholderTitle,
		Date:   time.Now().UTC(),
		Author: "alice",
		Link:   url,
	}
	_, err := p.Store.InsertPostIfAbsent(stub)
	require.NoError(t, err)

	p.Fetcher = &fakeFetcher{single: parseDoc(t, fmt.Sprintf(`
	<span class="smalltext">December 25, 2023, 10:15:42 AM</span>
	<div id="bodyarea"><div><div>
		<b>Bitcoin Forum</b><b>Economy</b><b>Services</b><b>Re: Hello</b>
	</div></div></div>
	<form id="quickModForm">
	<table class="bordercolor"><tbody><tr><td>
		<table><tbody><tr><td>
			<table><tbody><tr>
				<td class="poster_info"><b><a href="https://bitcointalk.org/index.php?action=profile;u=12345">alice</a></b></td>
				<td class="td_headerandpost">
					<table><tbody><tr><td>
						<div id="subject_777"><a href="%s">Re: Hello</a></div>
						<div>December 25, 2023, 09:59:01 AM</div>
					</td></tr></tbody></table>
					<div class="post">hey bob!</div>
				</td>
			</tr></tbody></table>
		</td></tr></tbody></table>
	</td></tr></tbody></table>
	</form>`, url))}

	require.NoError(t, p.backfillPost(url))

	post, err := p.Store.FindPostByID(777)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Economy / Services / Re: Hello", post.Title)
	assert.Equal(t, int64(12345), post.AuthorUID)
}
