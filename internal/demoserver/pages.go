package demoserver

// PageVersion is one revision of a demo page. Higher versions are better
// pages: they add the metadata, structure and content the audit rules look
// for, so switching versions moves the audit score visibly.
type PageVersion struct {
	HTML        string
	ContentType string
	Headers     map[string]string
}

// PageDefinition holds all versions of a single page.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]PageVersion
}

// GetAllPages returns all demo page definitions.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		getHomePage(),
		getBlogPage(),
		getLandingPage(),
	}
}

// Home: v1 is thin and unstructured, v2 fixes metadata and content depth.
func getHomePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Home page: v1 thin content, v2 properly structured",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Home</title>
    <script src="/static/app.js"></script>
</head>
<body>
    <b>Welcome</b>
    <p>Short page.</p>
    <img src="/static/photo.jpg">
    <a href="/blog">Blog</a>
</body>
</html>`,
			},
			2: {
				HTML: `<!DOCTYPE html>
<html lang="en">
<head>
    <title>Acme Widgets — Hand-built widgets since 1990</title>
    <meta name="description" content="Acme builds dependable widgets for workshops and factories. Browse the catalog, read the blog, or get a quote.">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="/static/app.js" defer></script>
</head>
<body>
    <header>
        <h1>Acme Widgets</h1>
        <nav><a href="/">Home</a> <a href="/blog">Blog</a> <a href="/landing">Offers</a></nav>
    </header>
    <main>
        <h2>Why our widgets last</h2>
        <p>Every widget that leaves the workshop is assembled by hand and
        load-tested twice. We publish the test results alongside each batch,
        so you can see exactly what your widget survived before it shipped.
        Most of our customers run the same widget for a decade or more.</p>
        <h2>What customers say</h2>
        <p>Workshops in forty countries use Acme widgets daily. The most
        common piece of feedback we get is that nobody remembers the last
        time one failed. We take that as a compliment and a challenge.</p>
        <img src="/static/photo.jpg" alt="A finished widget on the test bench">
    </main>
    <footer><p>Acme Widgets, est. 1990.</p></footer>
</body>
</html>`,
			},
		},
	}
}

// Blog: v1 has duplicate headings and dense walls of text, v2 cleans both.
func getBlogPage() PageDefinition {
	return PageDefinition{
		Path:        "/blog",
		Description: "Blog post: v1 dense and badly structured, v2 readable",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Blog</title>
</head>
<body>
    <h1>Blog</h1>
    <h1>Latest post</h1>
    <p>This paragraph goes on and on without a break covering the history of
    widgets the manufacturing process the materials involved the suppliers we
    work with the quality control steps the shipping process the packaging
    choices the warranty terms the repair service the recycling program the
    customer support hours the office address the founding story and several
    unrelated anecdotes all mashed together into a single undifferentiated
    block of text that nobody will finish reading because there is no
    structure to hold on to and no headings to skim by which is exactly the
    kind of writing the readability heuristics penalize.</p>
</body>
</html>`,
			},
			2: {
				HTML: `<!DOCTYPE html>
<html lang="en">
<head>
    <title>How we load-test widgets — Acme Blog</title>
    <meta name="description" content="A walk through Acme's two-stage widget load-testing process and why we publish the results.">
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <article>
        <h1>How we load-test widgets</h1>
        <h2>Stage one: the bench</h2>
        <p>Every widget spends an hour on the bench rig, cycling through its
        rated load. Most failures show up here, in the first ten minutes.</p>
        <h2>Stage two: overload</h2>
        <p>Survivors get loaded to 150 percent of rating for another hour.
        A widget that passes both stages gets its serial number etched and a
        line in the public test log.</p>
        <h2>Why publish the log?</h2>
        <p>Because a claim you can check beats a claim you must trust. The
        log is boring reading, and that is the point.</p>
    </article>
</body>
</html>`,
			},
		},
	}
}

// Landing: v1 is script-heavy with no viewport, v2 trims and fixes mobile.
func getLandingPage() PageDefinition {
	return PageDefinition{
		Path:        "/landing",
		Description: "Campaign landing page: v1 heavy and desktop-only, v2 lean",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head>
    <title>Offer</title>
    <script src="/static/a.js"></script>
    <script src="/static/b.js"></script>
    <script src="/static/c.js"></script>
    <script src="/static/d.js"></script>
    <script src="/static/e.js"></script>
    <script>var tracker = {};</script>
</head>
<body>
    <table width="900"><tr><td width="900">
        <h1>Limited offer</h1>
        <p>Buy widgets now.</p>
        <img src="/static/banner.jpg">
    </td></tr></table>
</body>
</html>`,
			},
			2: {
				HTML: `<!DOCTYPE html>
<html lang="en">
<head>
    <title>Spring widget bundle — save 20% — Acme Widgets</title>
    <meta name="description" content="The spring bundle pairs our two most popular widgets at 20% off, tested and shipped together.">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="/static/a.js" defer></script>
</head>
<body>
    <main>
        <h1>Spring widget bundle</h1>
        <p>The two widgets most workshops buy together, boxed as one order
        at twenty percent off. Both units come from the same test batch, so
        the published load results cover exactly what you receive.</p>
        <img src="/static/banner.jpg" alt="The spring bundle: two widgets boxed together">
        <p><a href="/">Back to the catalog</a></p>
    </main>
</body>
</html>`,
			},
		},
	}
}
