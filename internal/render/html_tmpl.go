package render

import "github.com/nconklindev/kouken/internal/types"

const pageTemplate = `<!doctype html>
<html lang="ja">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>{{.Title}}</title>
<style>
* { box-sizing: border-box; }
body { font-family: system-ui, -apple-system, 'Segoe UI', Roboto, 'Hiragino Kaku Gothic Pro', 'Noto Sans JP', 'Yu Gothic', Meiryo, sans-serif; margin: 24px; }
h1 { font-size: 1.6rem; margin: 0 0 12px; }
header .meta { color: #666; font-size: .9rem; margin-bottom: 16px; }
.controls { display: flex; gap: 12px; flex-wrap: wrap; margin: 16px 0 12px; }
.controls label { font-weight: 600; font-size: .95rem; }
select { padding: 8px 10px; font-size: .95rem; }
.card { border: 1px solid #ddd; border-radius: 8px; padding: 12px; margin: 12px 0; }
.card h2 { font-size: 1.2rem; margin: 0 0 8px; }
.count { color: #333; font-size: .95rem; margin-bottom: 8px; }
.tablewrap { overflow-x: auto; border: 1px solid #eee; border-radius: 6px; }
table { border-collapse: collapse; width: 100%; min-width: 960px; }
th, td { padding: 8px 10px; border-bottom: 1px solid #eee; text-align: left; white-space: nowrap; }
th { background: #f8f9fb; position: sticky; top: 0; z-index: 1; }
tr:nth-child(even) td { background: #fcfcff; }
.empty { color: #666; padding: 12px; }
.footer { margin-top: 18px; color: #555; font-size: .9rem; }
button { padding: 8px 12px; font-size: .9rem; border: 1px solid #ccc; border-radius: 6px; cursor: pointer; background: #fff; }
button:hover { background: #f4f5f7; }
.note { color: #777; font-size: .85rem; }
.badge { display: inline-block; padding: 2px 8px; background: #eef2ff; border: 1px solid #c7d2fe; border-radius: 999px; font-size: .8rem; color: #1e40af; }
.dropdown { position: relative; display: inline-block; }
.dropdown-toggle { padding: 8px 12px; font-size: .95rem; border: 1px solid #ccc; border-radius: 6px; background: #fff; cursor: pointer; }
.dropdown-toggle[aria-expanded="true"] { background: #f4f5f7; }
.dropdown-panel { position: absolute; z-index: 1000; min-width: 300px; margin-top: 6px; background: #fff; border: 1px solid #ddd; border-radius: 8px; box-shadow: 0 8px 24px rgba(0,0,0,.12); padding: 10px; display: none; }
.dropdown-panel.open { display: block; }
.dropdown-actions { display: flex; gap: 8px; justify-content: flex-end; margin-bottom: 8px; }
.dropdown-actions button { padding: 6px 10px; font-size: .85rem; }
.checkbox-list { display: grid; grid-template-columns: 1fr; gap: 6px; max-height: 280px; overflow-y: auto; border: 1px solid #eee; padding: 8px; border-radius: 6px; background: #fff; }
.chk { display: flex; align-items: center; gap: 8px; font-size: .95rem; font-weight: normal; }
.groups { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 8px; width: 100%; }
.group { border: 1px solid #ddd; border-radius: 8px; padding: 6px 10px; background: #fff; }
.group summary { cursor: pointer; display: flex; align-items: center; gap: 8px; }
.group summary .chk { display: inline-flex; }
.group .checkbox-list { margin-top: 6px; max-height: 220px; }
.muted { color: #999; font-size: .8rem; }
</style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <div class="meta">ソース: {{.SourceFile}} ／ 生成日時: {{.GeneratedAt}} ／ シート: {{.Sheet}} ／ 全 {{.Total}} 件</div>
    <div class="controls" role="region" aria-label="検索条件">
{{template "controls" .}}
      <div style="align-self: end;">
        <button id="export" type="button" title="現在の抽出結果をCSVで保存">CSVダウンロード</button>
        <div class="note">{{template "hint" .}}</div>
      </div>
    </div>
    <div class="note">選択中 → 年度: <span class="badge" id="badge_year"></span> ／ 診療科: <span class="badge" id="badge_dept"></span></div>
  </header>

  <section class="card">
    <h2>地域貢献－検索結果</h2>
    <div class="count" id="count"></div>
    <div id="tbl_main"></div>
  </section>

  <div class="footer">このページはExcelから自動生成されています。Excelを更新したら再生成してください。</div>
<script>
var DATA = {{json .Records}};
var CHOICES = {{json .Choices}};
var COLS = {{json .Columns}};
var EXPORT_NAME = {{json .ExportFileName}};
var YEAR = "年度", DEPT = "診療科", BY_YEAR = "診療科By年度";

function escapeHtml(v) {
  return String(v).split("&").join("&amp;").split("<").join("&lt;").split(">").join("&gt;").split('"').join("&quot;").split("'").join("&#39;");
}

function checkedValues(name) {
  var els = document.querySelectorAll('input[name="' + name + '"]:checked');
  var out = [];
  for (var i = 0; i < els.length; i++) {
    if (out.indexOf(els[i].value) === -1) out.push(els[i].value);
  }
  return out;
}

function setChecked(name, checked) {
  var els = document.querySelectorAll('input[name="' + name + '"]');
  for (var i = 0; i < els.length; i++) els[i].checked = checked;
}

function checklistHtml(name, values, extra) {
  var html = "";
  for (var i = 0; i < values.length; i++) {
    var v = escapeHtml(values[i]);
    html += '<label class="chk"><input type="checkbox" name="' + name + '" value="' + v + '"' + (extra || "") + '>' + v + '</label>';
  }
  return html;
}

function filterRecords(sel) {
  var out = [];
  for (var i = 0; i < DATA.length; i++) {
    var r = DATA[i], ok = true;
    for (var dim in sel) {
      var vals = sel[dim];
      if (vals.length && vals.indexOf(r[dim]) === -1) { ok = false; break; }
    }
    if (ok) out.push(r);
  }
  return out;
}

function makeTable(rows) {
  var wrap = document.getElementById("tbl_main");
  if (!rows || rows.length === 0) {
    wrap.innerHTML = '<div class="empty">該当するデータがありません。</div>';
    return;
  }
  var html = '<div class="tablewrap"><table><thead><tr>';
  for (var c = 0; c < COLS.length; c++) html += "<th>" + escapeHtml(COLS[c]) + "</th>";
  html += "</tr></thead><tbody>";
  for (var i = 0; i < rows.length; i++) {
    html += "<tr>";
    for (var j = 0; j < COLS.length; j++) {
      var v = rows[i][COLS[j]];
      html += "<td>" + escapeHtml(v == null ? "" : v) + "</td>";
    }
    html += "</tr>";
  }
  wrap.innerHTML = html + "</tbody></table></div>";
}

function setBadge(id, vals) {
  document.getElementById(id).textContent = vals.length ? vals.join(", ") : "未選択";
}

function renderResults() {
  var sel = currentSelection();
  var rows = filterRecords(sel);
  document.getElementById("count").textContent = rows.length + " 件";
  makeTable(rows);
  setBadge("badge_year", sel[YEAR]);
  setBadge("badge_dept", sel[DEPT]);
}

function csvField(v) {
  v = String(v == null ? "" : v);
  if (v.indexOf(",") === -1 && v.indexOf('"') === -1 && v.indexOf("\n") === -1) return v;
  return '"' + v.split('"').join('""') + '"';
}

function toCSV(rows) {
  var lines = [COLS.join(",")];
  for (var i = 0; i < rows.length; i++) {
    var fields = [];
    for (var j = 0; j < COLS.length; j++) fields.push(csvField(rows[i][COLS[j]]));
    lines.push(fields.join(","));
  }
  return lines.join("\n");
}

function exportCSV() {
  var rows = filterRecords(currentSelection());
  if (rows.length === 0) { alert("出力対象がありません。"); return; }
  var blob = new Blob([toCSV(rows)], { type: "text/csv;charset=utf-8;" });
  var url = URL.createObjectURL(blob);
  var a = document.createElement("a");
  a.href = url; a.download = EXPORT_NAME;
  document.body.appendChild(a); a.click();
  document.body.removeChild(a); URL.revokeObjectURL(url);
}

{{template "script" .}}

document.getElementById("export").addEventListener("click", exportCSV);
renderResults();
</script>
</body>
</html>`

const checkboxTemplate = `
{{define "controls"}}
      <div class="dropdown">
        <button class="dropdown-toggle" id="dd-year-btn" type="button" aria-expanded="false" aria-controls="dd-year-panel">年度を選択（複数可）</button>
        <div class="dropdown-panel" id="dd-year-panel" role="listbox" aria-labelledby="dd-year-btn">
          <div class="dropdown-actions">
            <button id="year_select_all" type="button">すべて選択</button>
            <button id="year_clear_all" type="button">すべて解除</button>
          </div>
          <div id="year_list" class="checkbox-list" aria-label="年度選択"></div>
        </div>
      </div>
      <div class="dropdown">
        <button class="dropdown-toggle" id="dd-dept-btn" type="button" aria-expanded="false" aria-controls="dd-dept-panel">診療科を選択（複数可）</button>
        <div class="dropdown-panel" id="dd-dept-panel" role="listbox" aria-labelledby="dd-dept-btn">
          <div class="dropdown-actions">
            <button id="dept_select_all" type="button">すべて選択</button>
            <button id="dept_clear_all" type="button">すべて解除</button>
          </div>
          <div id="dept_list" class="checkbox-list" aria-label="診療科選択"></div>
        </div>
      </div>
{{end}}
{{define "hint"}}※年度・診療科は複数選択できます（未選択の場合は全件）{{end}}
{{define "script"}}
var ddYearBtn = document.getElementById("dd-year-btn");
var ddYearPanel = document.getElementById("dd-year-panel");
var ddDeptBtn = document.getElementById("dd-dept-btn");
var ddDeptPanel = document.getElementById("dd-dept-panel");

function currentSelection() {
  var sel = {};
  sel[YEAR] = checkedValues("year");
  sel[DEPT] = checkedValues("dept");
  return sel;
}

function toggleDropdown(btn, panel, open) {
  var isOpen = (open != null) ? open : !panel.classList.contains("open");
  panel.classList.toggle("open", isOpen);
  btn.setAttribute("aria-expanded", isOpen ? "true" : "false");
}

document.getElementById("year_list").innerHTML = checklistHtml("year", CHOICES[YEAR]);
document.getElementById("dept_list").innerHTML = checklistHtml("dept", CHOICES[DEPT]);

ddYearBtn.addEventListener("click", function () { toggleDropdown(ddYearBtn, ddYearPanel); });
ddDeptBtn.addEventListener("click", function () { toggleDropdown(ddDeptBtn, ddDeptPanel); });
document.addEventListener("click", function (e) {
  if (!ddYearBtn.contains(e.target) && !ddYearPanel.contains(e.target)) toggleDropdown(ddYearBtn, ddYearPanel, false);
  if (!ddDeptBtn.contains(e.target) && !ddDeptPanel.contains(e.target)) toggleDropdown(ddDeptBtn, ddDeptPanel, false);
});
document.addEventListener("keydown", function (e) {
  if (e.key === "Escape") {
    toggleDropdown(ddYearBtn, ddYearPanel, false);
    toggleDropdown(ddDeptBtn, ddDeptPanel, false);
  }
});
document.getElementById("year_select_all").addEventListener("click", function () { setChecked("year", true); renderResults(); });
document.getElementById("year_clear_all").addEventListener("click", function () { setChecked("year", false); renderResults(); });
document.getElementById("dept_select_all").addEventListener("click", function () { setChecked("dept", true); renderResults(); });
document.getElementById("dept_clear_all").addEventListener("click", function () { setChecked("dept", false); renderResults(); });
document.addEventListener("change", function (e) {
  if (e.target && (e.target.name === "year" || e.target.name === "dept")) renderResults();
});
{{end}}
`

const cascadeTemplate = `
{{define "controls"}}
      <div>
        <label for="year">年度</label><br>
        <select id="year" aria-label="年度選択"></select>
      </div>
      <div>
        <label for="dept">診療科</label><br>
        <select id="dept" aria-label="診療科選択"></select>
      </div>
{{end}}
{{define "hint"}}※年度を選ぶと診療科の選択肢が絞り込まれます。{{end}}
{{define "script"}}
var yearSel = document.getElementById("year");
var deptSel = document.getElementById("dept");

function optionsHtml(placeholder, values) {
  var html = '<option value="">' + placeholder + '</option>';
  for (var i = 0; i < values.length; i++) {
    var v = escapeHtml(values[i]);
    html += '<option value="' + v + '">' + v + '</option>';
  }
  return html;
}

function updateDeptChoices() {
  deptSel.innerHTML = optionsHtml("診療科を選択…", CHOICES[BY_YEAR][yearSel.value] || []);
}

function currentSelection() {
  var sel = {};
  sel[YEAR] = yearSel.value ? [yearSel.value] : [];
  sel[DEPT] = deptSel.value ? [deptSel.value] : [];
  return sel;
}

yearSel.innerHTML = optionsHtml("年度を選択…", CHOICES[YEAR]);
updateDeptChoices();
yearSel.addEventListener("change", function () { updateDeptChoices(); renderResults(); });
deptSel.addEventListener("change", renderResults);
{{end}}
`

const groupedTemplate = `
{{define "controls"}}
      <div style="width: 100%;">
        <div class="dropdown-actions" style="justify-content: flex-start;">
          <button id="expand_all" type="button">すべて開く</button>
          <button id="collapse_all" type="button">すべて閉じる</button>
          <button id="clear_all" type="button">選択をすべて解除</button>
        </div>
        <div id="groups" class="groups" aria-label="年度・診療科選択"></div>
      </div>
{{end}}
{{define "hint"}}※年度ごとに診療科を選べます（未選択の場合は全件）{{end}}
{{define "script"}}
function currentSelection() {
  var sel = {};
  sel[YEAR] = checkedValues("year");
  sel[DEPT] = checkedValues("dept");
  return sel;
}

function renderGroups() {
  var html = "";
  for (var i = 0; i < CHOICES[YEAR].length; i++) {
    var y = CHOICES[YEAR][i];
    var depts = CHOICES[BY_YEAR][y] || [];
    html += '<details class="group"><summary>' + checklistHtml("year", [y]) +
      '<span class="muted">' + depts.length + ' 診療科</span></summary>' +
      '<div class="checkbox-list">' + checklistHtml("dept", depts, ' data-year="' + escapeHtml(y) + '"') + '</div></details>';
  }
  document.getElementById("groups").innerHTML = html;
}

function setOpen(open) {
  var groups = document.querySelectorAll("details.group");
  for (var i = 0; i < groups.length; i++) groups[i].open = open;
}

function syncDept(el) {
  var same = document.querySelectorAll('input[name="dept"]');
  for (var i = 0; i < same.length; i++) {
    if (same[i].value === el.value) same[i].checked = el.checked;
  }
}

renderGroups();
document.getElementById("expand_all").addEventListener("click", function () { setOpen(true); });
document.getElementById("collapse_all").addEventListener("click", function () { setOpen(false); });
document.getElementById("clear_all").addEventListener("click", function () {
  setChecked("year", false);
  setChecked("dept", false);
  renderResults();
});
document.addEventListener("change", function (e) {
  if (!e.target) return;
  if (e.target.name === "dept") syncDept(e.target);
  if (e.target.name === "year" || e.target.name === "dept") renderResults();
});
{{end}}
`

var variantTemplates = map[types.Variant]string{
	types.VariantCheckbox: checkboxTemplate,
	types.VariantCascade:  cascadeTemplate,
	types.VariantGrouped:  groupedTemplate,
}
