package server

import "html/template"

// dashboardTmpl renders the alert log as a plain HTML table.
var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>Alert Dashboard</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    table {
      border-collapse: collapse;
      background: #ffffff;
      border: 1px solid #e5e7eb;
    }

    th, td {
      padding: 8px 16px;
      border: 1px solid #e5e7eb;
      text-align: left;
    }

    th {
      background: #f9fafb;
    }
  </style>
</head>
<body>
  <h2>Patient Alert Logs</h2>
  <table>
    <tr><th>Sender</th><th>Keyword</th><th>Timestamp</th></tr>
    {{range .}}
    <tr>
      <td>{{.Sender}}</td>
      <td>{{.Keyword}}</td>
      <td>{{.Timestamp}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>
`
