package handler

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	embedSrcPattern = regexp.MustCompile(`^https://(?:www\.youtube\.com/embed/|player\.vimeo\.com/video/)`)
	numericIDPattern = regexp.MustCompile(`^\d+$`)
	kindVideoEmbed   = ast.NewNodeKind("VideoEmbed")
)

// 播放器只允许 YouTube / Vimeo 官方嵌入地址
func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-platform", "data-video-source").OnElements("div")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

// videoEmbed 描述可嵌入的播放器地址
type videoEmbed struct {
	Platform string `json:"platform"`
	Source   string `json:"source"`
	EmbedURL string `json:"embedUrl"`
}

// videoEmbedNode 替换只包含视频链接的顶层段落
type videoEmbedNode struct {
	ast.BaseBlock
	embed videoEmbed
}

func (n *videoEmbedNode) Kind() ast.NodeKind { return kindVideoEmbed }

func (n *videoEmbedNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"EmbedURL": n.embed.EmbedURL}, nil)
}

// videoEmbedExtension 只处理文档顶层段落，代码块、引用和列表里的链接保持原样
type videoEmbedExtension struct{}

func (videoEmbedExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(videoEmbedTransformer{}, 500)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(videoEmbedRenderer{}, 500)))
}

type videoEmbedTransformer struct{}

func (videoEmbedTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	for child := doc.FirstChild(); child != nil; {
		next := child.NextSibling()
		if para, ok := child.(*ast.Paragraph); ok && para.Lines().Len() == 1 {
			line := para.Lines().At(0)
			if embed, ok := parseVideoEmbed(string(line.Value(source))); ok {
				doc.ReplaceChild(doc, para, &videoEmbedNode{embed: embed})
			}
		}
		child = next
	}
}

type videoEmbedRenderer struct{}

func (videoEmbedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindVideoEmbed, func(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(buildVideoEmbedHTML(node.(*videoEmbedNode).embed))
			_ = w.WriteByte('\n')
		}
		return ast.WalkSkipChildren, nil
	})
}

// parseVideoEmbed 识别 YouTube 与 Vimeo 链接，其它地址返回 false。
// 允许省略协议以及 Markdown 自动链接的尖括号。
func parseVideoEmbed(raw string) (videoEmbed, bool) {
	source := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "<"), ">")
	if source == "" || strings.ContainsAny(source, " \t") {
		return videoEmbed{}, false
	}

	candidate := source
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return videoEmbed{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be" || hostWithin(host, "youtube.com") || hostWithin(host, "youtube-nocookie.com"):
		return youTubeEmbed(u, host, source)
	case hostWithin(host, "vimeo.com"):
		return vimeoEmbed(u, host, source)
	default:
		return videoEmbed{}, false
	}
}

func youTubeEmbed(u *url.URL, host, source string) (videoEmbed, bool) {
	segments := pathSegments(u.Path)
	id := ""
	switch {
	case host == "youtu.be" && len(segments) > 0:
		id = segments[0]
	case len(segments) == 1 && segments[0] == "watch":
		id = u.Query().Get("v")
	case len(segments) >= 2 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live"):
		id = segments[1]
	}
	if id == "" {
		return videoEmbed{}, false
	}

	params := url.Values{"rel": {"0"}, "modestbranding": {"1"}, "playsinline": {"1"}}
	start := u.Query().Get("start")
	if start == "" {
		start = u.Query().Get("t")
	}
	if seconds := startOffset(start); seconds > 0 {
		params.Set("start", strconv.Itoa(seconds))
	}

	return videoEmbed{
		Platform: "youtube",
		Source:   source,
		EmbedURL: "https://www.youtube.com/embed/" + url.PathEscape(id) + "?" + params.Encode(),
	}, true
}

// startOffset 支持纯秒数与 1h2m3s 写法
func startOffset(value string) int {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return max(seconds, 0)
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0
	}
	return int(d / time.Second)
}

// vimeoEmbed 支持 vimeo.com/{id}、vimeo.com/{id}/{hash}、频道链接与 player.vimeo.com/video/{id}
func vimeoEmbed(u *url.URL, host, source string) (videoEmbed, bool) {
	segments := pathSegments(u.Path)
	id, hash := "", ""
	if host == "player.vimeo.com" {
		if len(segments) >= 2 && segments[0] == "video" {
			id = segments[1]
		}
		hash = u.Query().Get("h")
	} else {
		for i, segment := range segments {
			if !numericIDPattern.MatchString(segment) {
				continue
			}
			id = segment
			if i+1 < len(segments) {
				hash = segments[i+1]
			}
			break
		}
	}
	if !numericIDPattern.MatchString(id) {
		return videoEmbed{}, false
	}

	params := url.Values{"dnt": {"1"}}
	if hash != "" {
		params.Set("h", hash)
	}
	return videoEmbed{
		Platform: "vimeo",
		Source:   source,
		EmbedURL: "https://player.vimeo.com/video/" + id + "?" + params.Encode(),
	}, true
}

func buildVideoEmbedHTML(embed videoEmbed) string {
	title := "Vimeo video player"
	if embed.Platform == "youtube" {
		title = "YouTube video player"
	}
	return fmt.Sprintf(
		`<div class="video-embed" data-video-platform="%s" data-video-source="%s">`+
			`<iframe src="%s" title="%s" loading="lazy" allow="encrypted-media; fullscreen; picture-in-picture" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(embed.Platform),
		htmlstd.EscapeString(embed.Source),
		htmlstd.EscapeString(embed.EmbedURL),
		title,
	)
}

func pathSegments(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func hostWithin(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
