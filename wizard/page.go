package wizard

// indexHTML is the whole UI: list the steps, show their saved inputs, run
// one and tail its log. Kept inline so the binary stays a single file.
const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Stagehand</title>
<style>
body { font: 15px/1.5 -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 860px; color: #222; }
h1 { font-size: 1.4rem; }
.step { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin: .8rem 0; }
.step h2 { margin: 0 0 .3rem; font-size: 1.05rem; }
.step p { margin: .2rem 0 .6rem; color: #666; }
label { display: block; margin: .3rem 0; }
input { width: 60%; padding: .25rem .4rem; }
button { padding: .35rem 1rem; cursor: pointer; }
pre { background: #111; color: #ddd; padding: .6rem; border-radius: 6px; max-height: 16rem; overflow: auto; white-space: pre-wrap; }
.failed { color: #c0392b; }
.done { color: #27ae60; }
</style>
</head>
<body>
<h1>Stagehand</h1>
<div id="steps"></div>
<script>
async function load() {
  const res = await fetch('/api/steps');
  const data = await res.json();
  const root = document.getElementById('steps');
  root.innerHTML = '';
  for (const step of data.steps) {
    const box = document.createElement('div');
    box.className = 'step';
    let fields = '';
    for (const f of step.fields || []) {
      const value = (step.values || {})[f.name] || '';
      fields += '<label>' + f.label + ' <input name="' + f.name + '" value="' + value.replace(/"/g, '&quot;') + '"></label>';
    }
    box.innerHTML = '<h2>' + step.title + '</h2><p>' + step.description + '</p>' + fields +
      '<button>Run</button> <span class="status"></span><pre hidden></pre>';
    box.querySelector('button').onclick = () => run(step.id, box);
    root.appendChild(box);
  }
}
async function run(id, box) {
  const fields = {};
  for (const input of box.querySelectorAll('input')) fields[input.name] = input.value;
  const res = await fetch('/api/steps/' + id + '/run', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({fields})
  });
  const data = await res.json();
  if (!res.ok) { box.querySelector('.status').textContent = data.error; return; }
  poll(data.job_id, box);
}
async function poll(jobId, box) {
  const status = box.querySelector('.status');
  const log = box.querySelector('pre');
  log.hidden = false;
  const timer = setInterval(async () => {
    const res = await fetch('/api/jobs/' + jobId);
    const job = await res.json();
    status.textContent = job.status;
    status.className = 'status ' + job.status;
    log.textContent = (job.log || []).join('\n') + (job.error ? '\n' + job.error : '');
    if (job.status === 'done' || job.status === 'failed') clearInterval(timer);
  }, 700);
}
load();
</script>
</body>
</html>`
