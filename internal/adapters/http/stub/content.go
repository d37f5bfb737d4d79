package stub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/internal/domain/model"
	"github.com/okian/softcopyright/internal/domain/types"
)

// Canned artifacts. They are deterministic for a given application name.

func frontendPage(appName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<title>%s</title>
<link href="https://cdnjs.cloudflare.com/ajax/libs/bootstrap/5.3.0/css/bootstrap.min.css" rel="stylesheet">
</head>
<body>
<h4 class='text-center mb-4'><i class='fas fa-industry'></i> %s</h4>
<nav>
<button id="home-btn">首页</button>
<button id="user-btn">用户管理</button>
<button id="data-btn">数据分析</button>
<button id="settings-btn">系统设置</button>
<button id="message-btn">消息中心</button>
</nav>
<div id="home-content">首页</div>
<div id="user-content">用户管理</div>
<div id="data-content">数据分析</div>
<div id="settings-content">系统设置</div>
<div id="message-content">消息中心</div>
<script>
function showContent(contentId) {
  document.querySelectorAll('[id$="-content"]').forEach(function (el) {
    el.style.display = el.id === contentId ? 'block' : 'none';
  });
}
showContent('home-content');
</script>
</body>
</html>`, appName, appName)
}

func backendCode(appName string) string {
	return fmt.Sprintf(`package com.copyright.app;

/**
 * %s 后端服务
 */
@RestController
@RequestMapping("/api")
public class AppController {

    @GetMapping("/home")
    public Result<String> home() {
        return Result.OK("%s");
    }
}
`, appName, appName)
}

var chapterTitles = [copyright.ChapterCount]string{
	"第一章 系统概述",
	"第二章 程序建立过程",
	"第三章 程序功能介绍",
	"第四章 总结与展望",
}

func chapterText(n int, appName string) string {
	if n < 1 || n > copyright.ChapterCount {
		return ""
	}
	return fmt.Sprintf("%s\n\n%s是一款面向行业用户的应用软件。本章介绍%s的相关内容。\n",
		chapterTitles[n-1], appName, appName)
}

func softwareInfo(appName string) types.SoftwareInfo {
	return types.SoftwareInfo{
		Name:      appName,
		Version:   "V1.0",
		Purpose:   appName + "用于提升业务管理效率",
		Domain:    "企业信息化",
		Functions: "首页、用户管理、数据分析、系统设置、消息中心",
		Features:  "界面简洁，模块清晰，响应式布局",
	}
}

// bundle builds the full artifact set for appName.
func bundle(appName string) *model.GeneratedData {
	g := model.NewGeneratedData(appName)
	front, back := frontendPage(appName), backendCode(appName)
	g.SetFrontendCode(front)
	g.SetBackendCode(back)
	g.SetFullCode(front + "\n\n" + back)
	for n := 1; n <= copyright.ChapterCount; n++ {
		g.SetChapter(n, chapterText(n, appName))
	}
	g.SetCompleteDocument(strings.Join(g.Chapters.Slice(), "\n"))
	g.SetSoftwareInfo(softwareInfo(appName))
	g.SetScreenshots([]string{})
	return g
}

// document renders a plain text stand-in for a Word document.
func document(title string, sections ...string) []byte {
	var b bytes.Buffer
	b.WriteString(title)
	b.WriteString("\n")
	for _, s := range sections {
		if s == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.Bytes()
}

// zipBundle packs every named file of g into a zip archive.
func zipBundle(g *model.GeneratedData) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name string
		body string
	}{
		{g.FileName(model.ArtifactFrontendCode), g.FrontendCode},
		{g.FileName(model.ArtifactBackendCode), g.BackendCode},
		{g.FileName(model.ArtifactFullCode), g.FullCode},
		{g.FileName(model.ArtifactCompleteDocument), g.CompleteDocument},
		{g.FileName(model.ArtifactSoftwareInfo), infoText(g.SoftwareInfo)},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func infoText(info types.SoftwareInfo) string {
	return fmt.Sprintf("软件名称：%s\n版本号：%s\n用途：%s\n领域：%s\n主要功能：%s\n技术特点：%s\n",
		info.Name, info.Version, info.Purpose, info.Domain, info.Functions, info.Features)
}

func contentDisposition(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
